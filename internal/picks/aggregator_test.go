package picks

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/pkg/logger"
)

// scoreTable maps pass name -> symbol -> score. Missing entries are absent.
type scoreTable map[string]map[string]float64

func (st scoreTable) scorers() map[contracts.StrategyID]contracts.Scorer {
	build := func(id contracts.StrategyID) contracts.Scorer {
		return contracts.ScorerFunc(func(md *contracts.MarketData, w contracts.Window) (contracts.Pick, bool) {
			name := Pass{Strategy: id, Window: w}.Name()
			score, ok := st[name][md.Symbol]
			if !ok {
				return contracts.Pick{}, false
			}
			return contracts.Pick{
				Symbol:   md.Symbol,
				Score:    score,
				Rating:   contracts.RatingFor(score),
				Strategy: name,
				Reasons:  []string{},
			}, true
		})
	}

	return map[contracts.StrategyID]contracts.Scorer{
		contracts.StrategyCANSLIM:   build(contracts.StrategyCANSLIM),
		contracts.StrategyMomentum:  build(contracts.StrategyMomentum),
		contracts.StrategyComposite: build(contracts.StrategyComposite),
	}
}

func records(symbols ...string) []contracts.MarketData {
	out := make([]contracts.MarketData, len(symbols))
	for i, s := range symbols {
		out[i] = contracts.MarketData{Symbol: s}
	}
	return out
}

func newTestAggregator(t *testing.T, st scoreTable) *Aggregator {
	t.Helper()
	agg, err := NewAggregator(st.scorers(), DefaultPasses(), DefaultTopN, logger.Nop())
	require.NoError(t, err)
	return agg
}

func TestDefaultStrategy(t *testing.T) {
	s := DefaultStrategy()

	assert.Equal(t, 20, s.TopN)
	require.Len(t, s.Passes, 4)
	assert.Equal(t, "canslim", s.Passes[0].Name())
	assert.Equal(t, 50.0, s.Passes[0].MinScore)
	assert.Equal(t, "momentum(7d)", s.Passes[1].Name())
	assert.Equal(t, 50.0, s.Passes[1].MinScore)
	assert.Equal(t, "momentum(24h)", s.Passes[2].Name())
	assert.Equal(t, 60.0, s.Passes[2].MinScore)
	assert.Equal(t, "composite", s.Passes[3].Name())
	assert.Equal(t, 55.0, s.Passes[3].MinScore)
	assert.NotZero(t, s.Universe.Count())
}

func TestNewAggregator_MissingScorer(t *testing.T) {
	scorers := map[contracts.StrategyID]contracts.Scorer{
		contracts.StrategyCANSLIM: scoreTable{}.scorers()[contracts.StrategyCANSLIM],
	}
	_, err := NewAggregator(scorers, DefaultPasses(), DefaultTopN, logger.Nop())
	assert.Error(t, err)
}

func TestAggregate_KeepsHigherScore(t *testing.T) {
	agg := newTestAggregator(t, scoreTable{
		"canslim":   {"AAPL": 70},
		"composite": {"AAPL": 60},
	})

	res, err := agg.Aggregate(context.Background(), records("AAPL"))
	require.NoError(t, err)

	require.Len(t, res.Picks, 1)
	assert.Equal(t, "AAPL", res.Picks[0].Symbol)
	assert.Equal(t, 70.0, res.Picks[0].Score)
	assert.Equal(t, "canslim", res.Picks[0].Strategy)

	require.Len(t, res.Passes, 4)
	assert.Len(t, res.Passes[0].Accepted, 1)
	assert.Len(t, res.Passes[3].Accepted, 1)
}

func TestAggregate_LaterStrictlyGreaterReplaces(t *testing.T) {
	agg := newTestAggregator(t, scoreTable{
		"canslim":       {"MSFT": 55},
		"momentum(7d)":  {"MSFT": 55},
		"momentum(24h)": {"MSFT": 61},
		"composite":     {"MSFT": 61},
	})

	res, err := agg.Aggregate(context.Background(), records("MSFT"))
	require.NoError(t, err)

	require.Len(t, res.Picks, 1)
	assert.Equal(t, 61.0, res.Picks[0].Score)
	assert.Equal(t, "momentum(24h)", res.Picks[0].Strategy, "equal later score must not replace")
}

func TestAggregate_Thresholds(t *testing.T) {
	tests := []struct {
		name   string
		table  scoreTable
		wantIn bool
	}{
		{"canslim at threshold", scoreTable{"canslim": {"X": 50}}, true},
		{"canslim below threshold", scoreTable{"canslim": {"X": 49}}, false},
		{"7d at threshold", scoreTable{"momentum(7d)": {"X": 50}}, true},
		{"24h below its own threshold", scoreTable{"momentum(24h)": {"X": 59}}, false},
		{"24h at threshold", scoreTable{"momentum(24h)": {"X": 60}}, true},
		{"composite below threshold", scoreTable{"composite": {"X": 54}}, false},
		{"composite at threshold", scoreTable{"composite": {"X": 55}}, true},
		{"below everywhere", scoreTable{"canslim": {"X": 40}, "momentum(24h)": {"X": 59}, "composite": {"X": 54}}, false},
		{"absent everywhere", scoreTable{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := newTestAggregator(t, tt.table)
			res, err := agg.Aggregate(context.Background(), records("X"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantIn, len(res.Picks) == 1)
		})
	}
}

func TestAggregate_Empty(t *testing.T) {
	agg := newTestAggregator(t, scoreTable{"canslim": {"AAPL": 90}})

	res, err := agg.Aggregate(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, res.Picks)
	assert.Empty(t, res.Picks)
	assert.Len(t, res.Passes, 4)
}

func TestAggregate_TruncatesToTopN(t *testing.T) {
	// 25 symbols, distinct scores 51..75, each passing exactly one pass
	st := scoreTable{"canslim": {}, "momentum(7d)": {}}
	var symbols []string
	for i := 0; i < 25; i++ {
		sym := fmt.Sprintf("S%02d", i)
		symbols = append(symbols, sym)
		if i%2 == 0 {
			st["canslim"][sym] = float64(51 + i)
		} else {
			st["momentum(7d)"][sym] = float64(51 + i)
		}
	}

	agg := newTestAggregator(t, st)
	res, err := agg.Aggregate(context.Background(), records(symbols...))
	require.NoError(t, err)

	require.Len(t, res.Picks, 20)
	for i, p := range res.Picks {
		assert.Equal(t, float64(75-i), p.Score)
		assert.Equal(t, fmt.Sprintf("S%02d", 24-i), p.Symbol)
	}
}

func TestAggregate_StableOnTies(t *testing.T) {
	agg := newTestAggregator(t, scoreTable{
		"canslim":      {"B": 70, "A": 70},
		"momentum(7d)": {"C": 70},
	})

	res, err := agg.Aggregate(context.Background(), records("B", "A", "C"))
	require.NoError(t, err)

	require.Len(t, res.Picks, 3)
	assert.Equal(t, "B", res.Picks[0].Symbol)
	assert.Equal(t, "A", res.Picks[1].Symbol)
	assert.Equal(t, "C", res.Picks[2].Symbol)
}

func TestAggregate_Invariants(t *testing.T) {
	st := scoreTable{
		"canslim":       {},
		"momentum(7d)":  {},
		"momentum(24h)": {},
		"composite":     {},
	}
	passNames := []string{"canslim", "momentum(7d)", "momentum(24h)", "composite"}
	thresholds := map[string]float64{"canslim": 50, "momentum(7d)": 50, "momentum(24h)": 60, "composite": 55}

	var symbols []string
	for i := 0; i < 40; i++ {
		sym := fmt.Sprintf("T%02d", i)
		symbols = append(symbols, sym)
		for j, name := range passNames {
			if (i+j)%3 == 0 {
				continue // absent
			}
			st[name][sym] = float64((i*37 + j*17) % 101)
		}
	}

	// expected best qualifying score per symbol
	want := map[string]float64{}
	for _, sym := range symbols {
		for _, name := range passNames {
			score, ok := st[name][sym]
			if !ok || score < thresholds[name] {
				continue
			}
			if cur, seen := want[sym]; !seen || score > cur {
				want[sym] = score
			}
		}
	}

	agg := newTestAggregator(t, st)
	res, err := agg.Aggregate(context.Background(), records(symbols...))
	require.NoError(t, err)

	assert.LessOrEqual(t, len(res.Picks), 20)
	seen := map[string]bool{}
	for i, p := range res.Picks {
		assert.False(t, seen[p.Symbol], "duplicate symbol %s", p.Symbol)
		seen[p.Symbol] = true

		best, ok := want[p.Symbol]
		require.True(t, ok, "%s never qualified", p.Symbol)
		assert.Equal(t, best, p.Score)

		if i > 0 {
			assert.GreaterOrEqual(t, res.Picks[i-1].Score, p.Score)
		}
	}
}

func TestAggregate_Cancelled(t *testing.T) {
	agg := newTestAggregator(t, scoreTable{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agg.Aggregate(ctx, records("AAPL"))
	assert.ErrorIs(t, err, context.Canceled)
}
