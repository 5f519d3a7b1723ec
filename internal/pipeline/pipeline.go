package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/internal/marketdata"
	"github.com/wonny/dailypicks/internal/metrics"
	"github.com/wonny/dailypicks/internal/picks"
	"github.com/wonny/dailypicks/internal/report"
	"github.com/wonny/dailypicks/internal/scoring"
	"github.com/wonny/dailypicks/pkg/logger"
)

// Fetcher is the bulk market data step
type Fetcher interface {
	Fetch(ctx context.Context, symbols []string) (*marketdata.Batch, error)
}

// Result describes one completed run
type Result struct {
	RunID    string
	Document contracts.DailyStocks
	Paths    []string
	Dropped  []string
	Passes   []picks.PassResult
}

// Pipeline runs universe → fetch → passes → publish → report
// ⭐ SSOT: 일일 추천 생성 흐름은 여기서만
type Pipeline struct {
	strategy     picks.Strategy
	strategyHash string

	fetcher    Fetcher
	aggregator *picks.Aggregator
	writer     contracts.DocumentWriter
	reporter   *report.Reporter

	metrics     *metrics.Recorder
	metricsPath string

	logger *logger.Logger
	now    func() time.Time
}

// New creates a pipeline scoring with the built-in scorers
func New(strategy picks.Strategy, fetcher Fetcher, writer contracts.DocumentWriter, reporter *report.Reporter, log *logger.Logger) (*Pipeline, error) {
	aggregator, err := picks.NewAggregator(scoring.Defaults(log), strategy.Passes, strategy.TopN, log)
	if err != nil {
		return nil, fmt.Errorf("build aggregator: %w", err)
	}

	return &Pipeline{
		strategy:   strategy,
		fetcher:    fetcher,
		aggregator: aggregator,
		writer:     writer,
		reporter:   reporter,
		logger:     log,
		now:        time.Now,
	}, nil
}

// WithMetrics exports run metrics to a textfile after every run
func (p *Pipeline) WithMetrics(rec *metrics.Recorder, path string) *Pipeline {
	p.metrics = rec
	p.metricsPath = path
	return p
}

// WithStrategyHash stamps run logs with the strategy fingerprint
func (p *Pipeline) WithStrategyHash(hash string) *Pipeline {
	p.strategyHash = hash
	return p
}

// Run generates and publishes one picks document
func (p *Pipeline) Run(ctx context.Context) (result *Result, err error) {
	runID := uuid.NewString()
	log := p.logger.WithField("run_id", runID)
	startTime := time.Now()

	defer func() {
		p.finish(log, result, err, startTime)
	}()

	log.WithFields(map[string]interface{}{
		"symbols":       p.strategy.Universe.Count(),
		"passes":        len(p.strategy.Passes),
		"top_n":         p.strategy.TopN,
		"strategy_hash": p.strategyHash,
	}).Info("Picks generation started")

	p.reporter.Start()

	// 1. Fetch
	symbols := p.strategy.Universe.Symbols()
	p.reporter.Fetching(len(symbols))

	fetchStart := time.Now()
	batch, err := p.fetcher.Fetch(ctx, symbols)
	if err != nil {
		return nil, err
	}
	p.observeStage("fetch", time.Since(fetchStart))
	if p.metrics != nil {
		p.metrics.RecordFetch(len(symbols), len(batch.Records), len(batch.Dropped))
	}

	p.reporter.Fetched(len(batch.Records), batch.Dropped)

	// 2. Score & rank
	scoreStart := time.Now()
	ranked, err := p.aggregator.Aggregate(ctx, batch.Records)
	if err != nil {
		return nil, fmt.Errorf("aggregate picks: %w", err)
	}
	p.observeStage("score", time.Since(scoreStart))

	for _, pr := range ranked.Passes {
		p.reporter.Pass(pr)
		if p.metrics != nil {
			p.metrics.RecordPass(pr.Pass.Name(), len(pr.Accepted))
		}
	}

	// 3. Publish
	doc := contracts.NewDailyStocks(ranked.Picks, p.now())

	writeStart := time.Now()
	paths, err := p.writer.Write(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("save picks: %w", err)
	}
	p.observeStage("write", time.Since(writeStart))

	p.reporter.Saved(doc, paths)
	p.reporter.Summary(doc)

	return &Result{
		RunID:    runID,
		Document: doc,
		Paths:    paths,
		Dropped:  batch.Dropped,
		Passes:   ranked.Passes,
	}, nil
}

func (p *Pipeline) observeStage(stage string, d time.Duration) {
	if p.metrics != nil {
		p.metrics.RecordDuration(stage, d)
	}
}

// finish logs the outcome and flushes metrics. Metric export failures never fail the run.
func (p *Pipeline) finish(log *logger.Logger, result *Result, err error, startTime time.Time) {
	duration := time.Since(startTime)

	if err != nil {
		log.WithFields(map[string]interface{}{
			"duration": duration,
			"error":    err.Error(),
		}).Error("Picks generation failed")
	} else {
		fields := map[string]interface{}{
			"duration":    duration,
			"total_picks": result.Document.TotalPicks,
			"dropped":     len(result.Dropped),
		}
		if top, ok := result.Document.TopPick(); ok {
			fields["top_pick"] = top.Symbol
		}
		log.WithFields(fields).Info("Picks generation completed")
	}

	if p.metrics == nil {
		return
	}

	p.metrics.RecordDuration("total", duration)
	p.metrics.RecordRun(err, p.now())
	if err == nil {
		p.metrics.RecordPicks(result.Document)
	}

	if p.metricsPath == "" {
		return
	}
	if werr := p.metrics.WriteTextfile(p.metricsPath); werr != nil {
		log.WithError(werr).Warn("Metrics export failed")
	}
}
