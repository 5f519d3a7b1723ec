package picks

import (
	"context"
	"fmt"
	"sort"

	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/pkg/logger"
)

// PassResult holds the picks one pass accepted, in fetch order
type PassResult struct {
	Pass     Pass
	Accepted []contracts.Pick
}

// Result is the ranked output of Aggregate
type Result struct {
	Picks  []contracts.Pick // deduplicated, sorted, truncated
	Passes []PassResult
}

// Aggregator runs the scoring passes and ranks the survivors
// ⭐ SSOT: 패스 실행 → 중복 제거 → 정렬 → TopN 은 여기서만
type Aggregator struct {
	scorers map[contracts.StrategyID]contracts.Scorer
	passes  []Pass
	topN    int
	logger  *logger.Logger
}

// NewAggregator creates a new aggregator.
// Every pass must have a scorer registered for its strategy.
func NewAggregator(scorers map[contracts.StrategyID]contracts.Scorer, passes []Pass, topN int, log *logger.Logger) (*Aggregator, error) {
	for _, p := range passes {
		if _, ok := scorers[p.Strategy]; !ok {
			return nil, fmt.Errorf("no scorer registered for strategy %q", p.Strategy)
		}
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	return &Aggregator{
		scorers: scorers,
		passes:  passes,
		topN:    topN,
		logger:  log,
	}, nil
}

// Aggregate scores records with every pass and returns the top picks.
// A symbol keeps its highest qualifying score; ties keep the earlier pass.
func (a *Aggregator) Aggregate(ctx context.Context, records []contracts.MarketData) (*Result, error) {
	result := &Result{Passes: make([]PassResult, 0, len(a.passes))}

	// Phase 1: run passes in order
	var accepted []contracts.Pick
	for _, pass := range a.passes {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("aggregate %s: %w", pass.Name(), err)
		}

		pr := a.runPass(pass, records)
		result.Passes = append(result.Passes, pr)
		accepted = append(accepted, pr.Accepted...)
	}

	// Phase 2: dedupe by symbol keeping the strictly greater score
	best := make(map[string]int, len(accepted)) // symbol -> index into deduped
	deduped := make([]contracts.Pick, 0, len(accepted))
	for _, p := range accepted {
		idx, seen := best[p.Symbol]
		if !seen {
			best[p.Symbol] = len(deduped)
			deduped = append(deduped, p)
			continue
		}
		if p.Score > deduped[idx].Score {
			deduped[idx] = p
		}
	}

	// Phase 3: rank
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Score > deduped[j].Score
	})
	if len(deduped) > a.topN {
		deduped = deduped[:a.topN]
	}
	result.Picks = deduped

	fields := map[string]interface{}{
		"records":  len(records),
		"accepted": len(accepted),
		"picks":    len(deduped),
	}
	if len(deduped) > 0 {
		fields["top_symbol"] = deduped[0].Symbol
		fields["top_score"] = deduped[0].Score
	}
	a.logger.WithFields(fields).Info("Aggregation completed")

	return result, nil
}

// runPass applies one scorer to every record and keeps results at or above the threshold
func (a *Aggregator) runPass(pass Pass, records []contracts.MarketData) PassResult {
	scorer := a.scorers[pass.Strategy]
	pr := PassResult{Pass: pass, Accepted: []contracts.Pick{}}

	absent, below := 0, 0
	for i := range records {
		pick, ok := scorer.Score(&records[i], pass.Window)
		if !ok {
			absent++
			continue
		}
		if pick.Score < pass.MinScore {
			below++
			continue
		}
		pr.Accepted = append(pr.Accepted, pick)
	}

	a.logger.WithFields(map[string]interface{}{
		"pass":      pass.Name(),
		"min_score": pass.MinScore,
		"accepted":  len(pr.Accepted),
		"absent":    absent,
		"below":     below,
	}).Debug("Pass completed")

	return pr
}
