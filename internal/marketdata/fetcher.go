package marketdata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/pkg/logger"
	"github.com/wonny/dailypicks/pkg/redis"
)

// QuoteSource fetches one symbol's quote and history
type QuoteSource interface {
	Fetch(ctx context.Context, symbol string) (*contracts.MarketData, error)
}

// FundamentalsSource supplies earnings growth and ownership data
type FundamentalsSource interface {
	Fundamentals(ctx context.Context, symbol string) (contracts.Fundamentals, error)
}

// Limiter gates each symbol fetch
type Limiter interface {
	Wait(ctx context.Context) error
}

// Batch is the outcome of one bulk fetch
type Batch struct {
	Records []contracts.MarketData // input order
	Dropped []string               // sorted
}

// Fetcher fans symbol fetches out over a bounded worker group
// ⭐ SSOT: 종목 시세 일괄 수집은 여기서만
type Fetcher struct {
	quotes       QuoteSource
	fundamentals FundamentalsSource
	cache        *redis.Cache
	limiters     []Limiter
	concurrency  int
	logger       *logger.Logger
	now          func() time.Time
}

// NewFetcher creates a new fetcher
func NewFetcher(quotes QuoteSource, concurrency int, log *logger.Logger) *Fetcher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Fetcher{
		quotes:      quotes,
		concurrency: concurrency,
		logger:      log,
		now:         time.Now,
	}
}

// WithFundamentals enriches every record from src
func (f *Fetcher) WithFundamentals(src FundamentalsSource, cache *redis.Cache) *Fetcher {
	f.fundamentals = src
	f.cache = cache
	return f
}

// WithLimiter adds a limiter waited on before every symbol
func (f *Fetcher) WithLimiter(l Limiter) *Fetcher {
	f.limiters = append(f.limiters, l)
	return f
}

// FetchMultiple implements contracts.MarketDataFetcher
func (f *Fetcher) FetchMultiple(ctx context.Context, symbols []string) ([]contracts.MarketData, error) {
	batch, err := f.Fetch(ctx, symbols)
	if err != nil {
		return nil, err
	}
	return batch.Records, nil
}

// Fetch retrieves every symbol. Per-symbol failures are dropped and listed;
// only cancellation or a limiter failure fails the batch.
func (f *Fetcher) Fetch(ctx context.Context, symbols []string) (*Batch, error) {
	startTime := time.Now()
	results := make([]*contracts.MarketData, len(symbols))

	var mu sync.Mutex
	var dropped []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			for _, l := range f.limiters {
				if err := l.Wait(gctx); err != nil {
					return fmt.Errorf("rate limit %s: %w", symbol, err)
				}
			}

			md, err := f.quotes.Fetch(gctx, symbol)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}

				f.logger.WithFields(map[string]interface{}{
					"symbol": symbol,
					"error":  err.Error(),
				}).Debug("Symbol fetch failed")

				mu.Lock()
				dropped = append(dropped, symbol)
				mu.Unlock()
				return nil
			}

			if f.fundamentals != nil {
				f.enrich(gctx, md)
			}

			results[i] = md
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch market data: %w", err)
	}

	batch := &Batch{
		Records: make([]contracts.MarketData, 0, len(symbols)),
		Dropped: dropped,
	}
	for _, md := range results {
		if md != nil {
			batch.Records = append(batch.Records, *md)
		}
	}
	sort.Strings(batch.Dropped)

	fields := map[string]interface{}{
		"requested": len(symbols),
		"fetched":   len(batch.Records),
		"duration":  time.Since(startTime),
	}
	if len(batch.Dropped) > 0 {
		fields["dropped"] = batch.Dropped
		f.logger.WithFields(fields).Warn("Some symbols could not be fetched")
	} else {
		f.logger.WithFields(fields).Info("Market data fetched")
	}

	return batch, nil
}

// enrich overlays fundamentals; failures keep what the quote source had
func (f *Fetcher) enrich(ctx context.Context, md *contracts.MarketData) {
	key := redis.FundamentalsKey(md.Symbol, f.now().UTC().Format("2006-01-02"))

	var extra contracts.Fundamentals
	if f.cache != nil {
		found, err := f.cache.Get(ctx, key, &extra)
		if err == nil && found {
			Overlay(&md.Fundamentals, extra)
			return
		}
	}

	extra, err := f.fundamentals.Fundamentals(ctx, md.Symbol)
	if err != nil {
		entry := f.logger.WithFields(map[string]interface{}{
			"symbol": md.Symbol,
			"error":  err.Error(),
		})
		if errors.Is(err, contracts.ErrNoData) {
			entry.Debug("No fundamentals for symbol")
		} else {
			entry.Warn("Fundamentals fetch failed")
		}
		return
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, key, extra, redis.TTLDaily); err != nil {
			f.logger.WithError(err).Warn("Fundamentals cache write failed")
		}
	}

	Overlay(&md.Fundamentals, extra)
}

// Overlay copies every field extra reports onto base
func Overlay(base *contracts.Fundamentals, extra contracts.Fundamentals) {
	if extra.EPSTrailing != 0 {
		base.EPSTrailing = extra.EPSTrailing
	}
	if extra.EPSForward != 0 {
		base.EPSForward = extra.EPSForward
	}
	if extra.TrailingPE != 0 {
		base.TrailingPE = extra.TrailingPE
	}
	if extra.EPSGrowthQoQ != nil {
		base.EPSGrowthQoQ = extra.EPSGrowthQoQ
	}
	if extra.EPSGrowthThisYear != nil {
		base.EPSGrowthThisYear = extra.EPSGrowthThisYear
	}
	if extra.SalesGrowthQoQ != nil {
		base.SalesGrowthQoQ = extra.SalesGrowthQoQ
	}
	if extra.InstOwnership != nil {
		base.InstOwnership = extra.InstOwnership
	}
}
