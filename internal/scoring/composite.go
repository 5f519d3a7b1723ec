package scoring

import (
	"fmt"

	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/pkg/logger"
)

// minCompositeBars is the shortest history the composite rating accepts
const minCompositeBars = 20

// CompositeScorer blends trend, strength and valuation into a medium-term rating.
// Points: 3-month return 25, 52-week-high distance 20, MA alignment 20, RSI 20, valuation 15.
// ⭐ SSOT: Composite 점수 계산은 여기서만
type CompositeScorer struct {
	logger *logger.Logger
}

// NewCompositeScorer creates a new composite scorer
func NewCompositeScorer(log *logger.Logger) *CompositeScorer {
	return &CompositeScorer{logger: log}
}

// Score rates md. The window is ignored.
func (s *CompositeScorer) Score(md *contracts.MarketData, _ contracts.Window) (contracts.Pick, bool) {
	if !md.HasQuote() || len(md.Bars) < minCompositeBars {
		return contracts.Pick{}, false
	}

	var reasons []string
	closes := md.Closes()
	price := md.Quote.Price.InexactFloat64()

	lookback := len(md.Bars) - 1
	if lookback > 63 {
		lookback = 63
	}
	ret, _ := md.Return(lookback)
	retPts := squash(ret*4, 25)
	if ret >= 0.15 {
		reasons = append(reasons, fmt.Sprintf("Up %.0f%% over %d sessions", ret*100, lookback))
	}

	highPts := 0.0
	if md.Quote.High52W.IsPositive() {
		highPts = ramp(price/md.Quote.High52W.InexactFloat64(), 0.6, 1.0, 20)
	}

	maPts := 0.0
	sma20, _ := sma(closes, 20)
	if price > sma20 {
		maPts += 7
	}
	if sma50, ok := sma(closes, 50); ok && sma20 > sma50 {
		maPts += 7
	}
	if md.Quote.FiftyDayAvg > 0 && md.Quote.FiftyDayAvg > md.Quote.TwoHundredAvg {
		maPts += 6
	}
	if maPts >= 14 {
		reasons = append(reasons, "Moving averages aligned upward")
	}

	rsi14 := rsi(closes, 14)
	rsiPts := 4.0
	switch {
	case rsi14 >= 40 && rsi14 <= 70:
		rsiPts = 20
		reasons = append(reasons, fmt.Sprintf("Healthy RSI %.0f", rsi14))
	case rsi14 >= 30 && rsi14 <= 80:
		rsiPts = 10
	}

	valuePts := s.valuation(md.Fundamentals, &reasons)

	total := retPts + highPts + maPts + rsiPts + valuePts

	s.logger.WithFields(map[string]interface{}{
		"symbol":    md.Symbol,
		"return":    ret,
		"high_pts":  highPts,
		"ma_pts":    maPts,
		"rsi":       rsi14,
		"value_pts": valuePts,
		"total":     total,
	}).Debug("Calculated composite score")

	return newPick(md, total, "Composite Rating", "medium-term", reasons, map[string]float64{
		"returnPts": retPts,
		"highPts":   highPts,
		"maPts":     maPts,
		"rsi":       rsi14,
		"valuePts":  valuePts,
	}), true
}

// valuation scores trailing PE; loss-making companies get nothing
func (s *CompositeScorer) valuation(f contracts.Fundamentals, reasons *[]string) float64 {
	pe := f.TrailingPE
	switch {
	case f.EPSTrailing < 0:
		return 0
	case pe > 0 && pe <= 25:
		*reasons = append(*reasons, fmt.Sprintf("Reasonable valuation (P/E %.1f)", pe))
		return 15
	case pe > 0 && pe <= 40:
		return 10
	case pe > 0 && pe <= 60:
		return 5
	default:
		return 3
	}
}
