package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/dailypicks/internal/external/finviz"
	"github.com/wonny/dailypicks/internal/external/yahoo"
	"github.com/wonny/dailypicks/internal/marketdata"
	"github.com/wonny/dailypicks/internal/metrics"
	"github.com/wonny/dailypicks/internal/publish"
	"github.com/wonny/dailypicks/internal/report"
	"github.com/wonny/dailypicks/internal/strategyconfig"
	"github.com/wonny/dailypicks/pkg/config"
	"github.com/wonny/dailypicks/pkg/httputil"
	"github.com/wonny/dailypicks/pkg/logger"
	"github.com/wonny/dailypicks/pkg/redis"
)

// keyPrefix namespaces every Redis key this program writes
const keyPrefix = "dailypicks"

// finvizPerSec keeps the scraper polite when no shared quota is configured
const finvizPerSec = 2

// finvizRetryDelay is the first backoff when FINVIZ_RETRIES is set
const finvizRetryDelay = 500 * time.Millisecond

// Build wires the production pipeline from configuration.
// The returned cleanup releases the Redis connection.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger, out io.Writer) (*Pipeline, func(), error) {
	strategyCfg, err := strategyconfig.Resolve(cfg.StrategyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load strategy: %w", err)
	}

	hash, err := strategyconfig.Hash(strategyCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("hash strategy: %w", err)
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := rc.Close(); err != nil {
			log.WithError(err).Warn("Redis close failed")
		}
	}

	fetcher := marketdata.NewFetcher(yahoo.NewClient(cfg.Fetch.HistoryDays, cfg.Fetch.Timeout, log), cfg.Fetch.Concurrency, log).
		WithLimiter(rate.NewLimiter(rate.Limit(cfg.Fetch.RatePerSec), 1))

	var limiter *redis.RateLimiter
	if rc.Enabled() {
		limiter = redis.NewRateLimiter(rc, keyPrefix)
		fetcher.WithLimiter(limiter.Quota(redis.YahooRateLimit(cfg.Fetch.RatePerSec)))
	}

	if cfg.Finviz.Enabled {
		fetcher.WithFundamentals(newFinvizClient(cfg, log, limiter), redis.NewCache(rc, keyPrefix))
	}

	p, err := New(
		strategyCfg.Strategy(),
		fetcher,
		publish.NewWriter(cfg.OutputDir, log),
		report.New(out).WithDropped(cfg.LogLevel == "debug"),
		log,
	)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	p.WithStrategyHash(hash)

	if cfg.MetricsTextfile != "" {
		p.WithMetrics(metrics.New(), cfg.MetricsTextfile)
	}

	log.WithFields(map[string]interface{}{
		"strategy_file": cfg.StrategyFile,
		"strategy_hash": hash,
		"redis":         rc.Enabled(),
		"finviz":        cfg.Finviz.Enabled,
		"output_dir":    cfg.OutputDir,
	}).Debug("Pipeline built")

	return p, cleanup, nil
}

// newFinvizClient rate-limits the scraper with the shared quota when Redis is up,
// otherwise with a local limiter.
func newFinvizClient(cfg *config.Config, log *logger.Logger, limiter *redis.RateLimiter) *finviz.Client {
	httpClient := httputil.New(cfg, log)
	if limiter != nil {
		httpClient.WithRateLimiter(limiter.Quota(redis.FinvizRateLimit))
	} else {
		httpClient.WithRateLimiter(rate.NewLimiter(finvizPerSec, 1))
	}

	if cfg.Finviz.Retries > 0 {
		httpClient.WithRetry(cfg.Finviz.Retries, finvizRetryDelay)
	}

	return finviz.NewClient(httpClient, cfg.Finviz.BaseURL, log)
}
