package contracts

import "context"

// MarketDataFetcher retrieves snapshots for a list of symbols.
// Results keep the input order; symbols that fail are omitted.
// ⭐ SSOT: 시세 수집 인터페이스
type MarketDataFetcher interface {
	FetchMultiple(ctx context.Context, symbols []string) ([]MarketData, error)
}

// Scorer rates one snapshot. ok=false means the strategy has no opinion.
// ⭐ SSOT: 전략 점수 인터페이스
type Scorer interface {
	Score(md *MarketData, window Window) (pick Pick, ok bool)
}

// ScorerFunc adapts a plain function to Scorer
type ScorerFunc func(md *MarketData, window Window) (Pick, bool)

// Score calls f
func (f ScorerFunc) Score(md *MarketData, window Window) (Pick, bool) {
	return f(md, window)
}

// DocumentWriter persists the generated document
type DocumentWriter interface {
	Write(ctx context.Context, doc DailyStocks) ([]string, error)
}
