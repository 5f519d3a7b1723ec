package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are emitted as JSON numbers for the web consumer.
	decimal.MarshalJSONWithoutQuotes = true
}

// Rating buckets a 0-100 score
type Rating string

const (
	RatingStrongBuy Rating = "STRONG BUY"
	RatingBuy       Rating = "BUY"
	RatingHold      Rating = "HOLD"
	RatingSell      Rating = "SELL"
)

// RatingFor maps a score to its rating bucket
func RatingFor(score float64) Rating {
	switch {
	case score >= 80:
		return RatingStrongBuy
	case score >= 65:
		return RatingBuy
	case score >= 50:
		return RatingHold
	default:
		return RatingSell
	}
}

// StrategyID identifies a scoring heuristic
type StrategyID string

const (
	StrategyCANSLIM   StrategyID = "canslim"
	StrategyMomentum  StrategyID = "momentum"
	StrategyComposite StrategyID = "composite"
)

// Window is the lookback for technical momentum. Empty for strategies without one.
type Window string

const (
	WindowNone Window = ""
	Window7D   Window = "7d"
	Window24H  Window = "24h"
)

// Pick is one scored recommendation produced by exactly one strategy
// ⭐ SSOT: Scorer → Aggregator → JSON 출력
type Pick struct {
	Symbol        string             `json:"symbol"`
	Name          string             `json:"name,omitempty"`
	Score         float64            `json:"score"` // 0 ~ 100
	Rating        Rating             `json:"rating"`
	Strategy      string             `json:"strategy"`
	Timeframe     string             `json:"timeframe"`
	Price         decimal.Decimal    `json:"price"`
	ChangePercent float64            `json:"changePercent"`
	Reasons       []string           `json:"reasons"`
	Metrics       map[string]float64 `json:"metrics,omitempty"`
}

// ISOTimestamp renders instants like JavaScript's Date.toISOString
const ISOTimestamp = "2006-01-02T15:04:05.000Z07:00"

// DailyStocks is the document written to daily-stocks.json
type DailyStocks struct {
	LastUpdated string `json:"lastUpdated"`
	TotalPicks  int    `json:"totalPicks"`
	Stocks      []Pick `json:"stocks"`
}

// NewDailyStocks builds a fresh document stamped with now (rendered in UTC)
func NewDailyStocks(picks []Pick, now time.Time) DailyStocks {
	if picks == nil {
		picks = []Pick{}
	}
	return DailyStocks{
		LastUpdated: now.UTC().Format(ISOTimestamp),
		TotalPicks:  len(picks),
		Stocks:      picks,
	}
}

// CountByRating counts stocks in the given rating bucket
func (d *DailyStocks) CountByRating(r Rating) int {
	n := 0
	for _, p := range d.Stocks {
		if p.Rating == r {
			n++
		}
	}
	return n
}

// TopPick returns the first-ranked pick, if any
func (d *DailyStocks) TopPick() (Pick, bool) {
	if len(d.Stocks) == 0 {
		return Pick{}, false
	}
	return d.Stocks[0], true
}
