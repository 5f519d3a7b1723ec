package contracts

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// MarketData is the per-symbol snapshot handed from the fetcher to the scorers
// ⭐ SSOT: Fetcher → Scorer 데이터 전달
type MarketData struct {
	Symbol       string       `json:"symbol"`
	Name         string       `json:"name"`
	Quote        Quote        `json:"quote"`
	Fundamentals Fundamentals `json:"fundamentals"`
	Bars         []Bar        `json:"bars"` // daily bars, oldest first
	FetchedAt    time.Time    `json:"fetchedAt"`
}

// Quote is the latest regular-session snapshot
type Quote struct {
	Price         decimal.Decimal `json:"price"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	ChangePercent float64         `json:"changePercent"`
	DayHigh       decimal.Decimal `json:"dayHigh"`
	DayLow        decimal.Decimal `json:"dayLow"`
	Volume        int64           `json:"volume"`
	AvgVolume3M   int64           `json:"avgVolume3m"`
	AvgVolume10D  int64           `json:"avgVolume10d"`
	FiftyDayAvg   float64         `json:"fiftyDayAvg"`
	TwoHundredAvg float64         `json:"twoHundredDayAvg"`
	High52W       decimal.Decimal `json:"high52w"`
	Low52W        decimal.Decimal `json:"low52w"`
	MarketCap     int64           `json:"marketCap"`
}

// Fundamentals holds earnings and ownership data.
// Pointer fields are nil when the source did not report them.
type Fundamentals struct {
	EPSTrailing       float64  `json:"epsTrailing"`
	EPSForward        float64  `json:"epsForward"`
	TrailingPE        float64  `json:"trailingPE"`
	EPSGrowthQoQ      *float64 `json:"epsGrowthQoQ,omitempty"`      // %
	EPSGrowthThisYear *float64 `json:"epsGrowthThisYear,omitempty"` // %
	SalesGrowthQoQ    *float64 `json:"salesGrowthQoQ,omitempty"`    // %
	InstOwnership     *float64 `json:"instOwnership,omitempty"`     // %
}

// Bar is one daily OHLCV candle
type Bar struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// HasQuote reports whether a usable last price is present
func (m *MarketData) HasQuote() bool {
	return m.Quote.Price.IsPositive()
}

// Closes returns closing prices as float64, oldest first
func (m *MarketData) Closes() []float64 {
	closes := make([]float64, len(m.Bars))
	for i, b := range m.Bars {
		closes[i] = b.Close.InexactFloat64()
	}
	return closes
}

// Return computes the close-to-close return over the last n bars.
// ok is false when fewer than n+1 bars are available.
func (m *MarketData) Return(n int) (ret float64, ok bool) {
	if n <= 0 || len(m.Bars) < n+1 {
		return 0, false
	}

	last := m.Bars[len(m.Bars)-1].Close
	past := m.Bars[len(m.Bars)-1-n].Close
	if !past.IsPositive() {
		return 0, false
	}

	return last.Sub(past).Div(past).InexactFloat64(), true
}

// AvgVolume averages volume over the last n bars
func (m *MarketData) AvgVolume(n int) float64 {
	if n <= 0 || len(m.Bars) == 0 {
		return 0
	}
	if n > len(m.Bars) {
		n = len(m.Bars)
	}

	var sum int64
	for _, b := range m.Bars[len(m.Bars)-n:] {
		sum += b.Volume
	}
	return float64(sum) / float64(n)
}

// ErrNoData reports a symbol for which the source returned nothing usable
var ErrNoData = errors.New("no market data")
