package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"

	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/pkg/logger"
)

// EquityFunc fetches a quote with fundamentals
type EquityFunc func(symbol string) (*finance.Equity, error)

// BarsFunc fetches daily bars between start and end, oldest first
type BarsFunc func(symbol string, start, end time.Time) ([]contracts.Bar, error)

// setHTTPClient installs the transport finance-go uses for every call
var setHTTPClient = finance.SetHTTPClient

// Client fetches quotes and daily history from Yahoo Finance
// ⭐ SSOT: Yahoo Finance 호출은 이 클라이언트에서만
type Client struct {
	logger      *logger.Logger
	historyDays int
	equity      EquityFunc
	bars        BarsFunc
	now         func() time.Time
}

// NewClient creates a new Yahoo Finance client.
// finance-go keeps one package-level HTTP client, so timeout applies process-wide.
func NewClient(historyDays int, timeout time.Duration, log *logger.Logger) *Client {
	if timeout > 0 {
		setHTTPClient(&http.Client{Timeout: timeout})
	}

	return &Client{
		logger:      log,
		historyDays: historyDays,
		equity:      equity.Get,
		bars:        getBars,
		now:         time.Now,
	}
}

// Fetch returns one symbol's snapshot.
// The quote falls back to the latest bars when the quote endpoint fails.
func (c *Client) Fetch(ctx context.Context, symbol string) (*contracts.MarketData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := c.now()
	start := now.AddDate(0, 0, -c.historyDays)

	eq, eqErr := c.equity(symbol)
	if eqErr == nil && eq == nil {
		eqErr = contracts.ErrNoData
	}

	bars, barsErr := c.bars(symbol, start, now)
	if barsErr == nil && len(bars) == 0 {
		barsErr = contracts.ErrNoData
	}

	if eqErr != nil && barsErr != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, errors.Join(eqErr, barsErr))
	}

	md := &contracts.MarketData{
		Symbol:    symbol,
		Bars:      bars,
		FetchedAt: now,
	}

	if eqErr == nil {
		applyEquity(md, eq)
	} else {
		c.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"error":  eqErr.Error(),
		}).Debug("Quote unavailable, deriving from bars")
		md.Quote = quoteFromBars(bars)
	}

	if !md.HasQuote() {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, contracts.ErrNoData)
	}

	return md, nil
}

// applyEquity copies the regular-session quote and earnings fields
func applyEquity(md *contracts.MarketData, eq *finance.Equity) {
	md.Name = eq.LongName
	if md.Name == "" {
		md.Name = eq.ShortName
	}

	md.Quote = contracts.Quote{
		Price:         decimal.NewFromFloat(eq.RegularMarketPrice),
		PreviousClose: decimal.NewFromFloat(eq.RegularMarketPreviousClose),
		ChangePercent: eq.RegularMarketChangePercent,
		DayHigh:       decimal.NewFromFloat(eq.RegularMarketDayHigh),
		DayLow:        decimal.NewFromFloat(eq.RegularMarketDayLow),
		Volume:        int64(eq.RegularMarketVolume),
		AvgVolume3M:   int64(eq.AverageDailyVolume3Month),
		AvgVolume10D:  int64(eq.AverageDailyVolume10Day),
		FiftyDayAvg:   eq.FiftyDayAverage,
		TwoHundredAvg: eq.TwoHundredDayAverage,
		High52W:       decimal.NewFromFloat(eq.FiftyTwoWeekHigh),
		Low52W:        decimal.NewFromFloat(eq.FiftyTwoWeekLow),
		MarketCap:     int64(eq.MarketCap),
	}

	md.Fundamentals.EPSTrailing = eq.EpsTrailingTwelveMonths
	md.Fundamentals.EPSForward = eq.EpsForward
	md.Fundamentals.TrailingPE = eq.TrailingPE
}

// quoteFromBars approximates the quote from daily history
func quoteFromBars(bars []contracts.Bar) contracts.Quote {
	n := len(bars)
	if n == 0 {
		return contracts.Quote{}
	}

	last := bars[n-1]
	q := contracts.Quote{
		Price:   last.Close,
		DayHigh: last.High,
		DayLow:  last.Low,
		Volume:  last.Volume,
		High52W: last.High,
		Low52W:  last.Low,
	}

	if n > 1 {
		prev := bars[n-2].Close
		q.PreviousClose = prev
		if prev.IsPositive() {
			q.ChangePercent = last.Close.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
	}

	md := contracts.MarketData{Bars: bars}
	q.AvgVolume3M = int64(md.AvgVolume(63))
	q.AvgVolume10D = int64(md.AvgVolume(10))
	if n >= 50 {
		q.FiftyDayAvg = average(md.Closes()[n-50:])
	}
	if n >= 200 {
		q.TwoHundredAvg = average(md.Closes()[n-200:])
	}

	for _, b := range bars {
		if b.High.GreaterThan(q.High52W) {
			q.High52W = b.High
		}
		if b.Low.IsPositive() && b.Low.LessThan(q.Low52W) {
			q.Low52W = b.Low
		}
	}

	return q
}

// getBars reads daily candles through the chart endpoint
func getBars(symbol string, start, end time.Time) ([]contracts.Bar, error) {
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	bars := make([]contracts.Bar, 0, 64)
	for iter.Next() {
		bar := iter.Bar()
		if !bar.Close.IsPositive() {
			continue // holiday rows come back zeroed
		}

		bars = append(bars, contracts.Bar{
			Date:   time.Unix(int64(bar.Timestamp), 0).UTC(),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: int64(bar.Volume),
		})
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}

	return bars, nil
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
