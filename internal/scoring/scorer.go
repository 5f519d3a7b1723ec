package scoring

import (
	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/pkg/logger"
)

// Defaults wires one scorer per strategy
// ⭐ SSOT: 전략별 Scorer 등록은 여기서만
func Defaults(log *logger.Logger) map[contracts.StrategyID]contracts.Scorer {
	return map[contracts.StrategyID]contracts.Scorer{
		contracts.StrategyCANSLIM:   NewCANSLIMScorer(log),
		contracts.StrategyMomentum:  NewMomentumScorer(log),
		contracts.StrategyComposite: NewCompositeScorer(log),
	}
}

// newPick fills the shared Pick fields from a snapshot
func newPick(md *contracts.MarketData, points float64, strategy, timeframe string, reasons []string, metrics map[string]float64) contracts.Pick {
	score := finalScore(points)
	if reasons == nil {
		reasons = []string{}
	}

	return contracts.Pick{
		Symbol:        md.Symbol,
		Name:          md.Name,
		Score:         score,
		Rating:        contracts.RatingFor(score),
		Strategy:      strategy,
		Timeframe:     timeframe,
		Price:         md.Quote.Price,
		ChangePercent: md.Quote.ChangePercent,
		Reasons:       reasons,
		Metrics:       metrics,
	}
}
