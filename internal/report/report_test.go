package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/internal/picks"
)

func pick(symbol string, score float64) contracts.Pick {
	return contracts.Pick{Symbol: symbol, Score: score, Rating: contracts.RatingFor(score), Reasons: []string{}}
}

func TestSummary(t *testing.T) {
	doc := contracts.NewDailyStocks([]contracts.Pick{
		pick("NVDA", 91),
		pick("AAPL", 82),
		pick("MSFT", 70),
		pick("JPM", 55),
	}, time.Now())

	var buf bytes.Buffer
	New(&buf).Summary(doc)
	out := buf.String()

	assert.Contains(t, out, "📊 Summary:")
	assert.Contains(t, out, "  • STRONG BUY: 2\n")
	assert.Contains(t, out, "  • BUY: 1\n")
	assert.Contains(t, out, "  • HOLD: 1\n")
	assert.Contains(t, out, "  • Top Pick: NVDA (91/100)\n")
}

func TestSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.NotPanics(t, func() {
		New(&buf).Summary(contracts.NewDailyStocks(nil, time.Now()))
	})

	out := buf.String()
	assert.Contains(t, out, "  • STRONG BUY: 0\n")
	assert.Contains(t, out, "  • Top Pick: none\n")
}

func TestPass(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.Pass(picks.PassResult{
		Pass:     picks.Pass{Strategy: contracts.StrategyCANSLIM, MinScore: 50},
		Accepted: []contracts.Pick{pick("AAPL", 70)},
	})
	r.Pass(picks.PassResult{
		Pass:     picks.Pass{Strategy: contracts.StrategyMomentum, Window: contracts.Window24H, MinScore: 60},
		Accepted: []contracts.Pick{},
	})

	out := buf.String()
	assert.Contains(t, out, "🔍 Running CAN SLIM Growth Screener...")
	assert.Contains(t, out, "  ✓ AAPL: 70/100 (BUY)\n")
	assert.Contains(t, out, "🔍 Running Technical Momentum Screener (24h)...")
	assert.Contains(t, out, "(no picks above 60)")
}

func TestFetchedAndSaved(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.Fetched(41, []string{"NAKD", "SNDL"})
	r.Saved(contracts.NewDailyStocks([]contracts.Pick{pick("AAPL", 70)}, time.Now()), []string{"/x/data/daily-stocks.json", "/x/public/data/daily-stocks.json"})

	out := buf.String()
	assert.Contains(t, out, "✅ Fetched data for 41 stocks")
	assert.NotContains(t, out, "NAKD")
	assert.Contains(t, out, "✅ Generated 1 stock picks")
	assert.Contains(t, out, "📁 Saved to: /x/data/daily-stocks.json\n")
	assert.Contains(t, out, "📁 Also saved to: /x/public/data/daily-stocks.json\n")
}

func TestFetched_ShowDropped(t *testing.T) {
	tests := []struct {
		name string
		show bool
		want bool
	}{
		{"hidden by default", false, false},
		{"shown when verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(&buf).WithDropped(tt.show).Fetched(41, []string{"NAKD", "SNDL"})

			assert.Equal(t, tt.want, bytes.Contains(buf.Bytes(), []byte("No data for 2 symbols: [NAKD SNDL]")))
		})
	}
}

func TestPassTitle(t *testing.T) {
	tests := []struct {
		pass picks.Pass
		want string
	}{
		{picks.Pass{Strategy: contracts.StrategyCANSLIM}, "CAN SLIM Growth Screener"},
		{picks.Pass{Strategy: contracts.StrategyMomentum, Window: contracts.Window7D}, "Technical Momentum Screener (7-day)"},
		{picks.Pass{Strategy: contracts.StrategyMomentum, Window: contracts.Window24H}, "Technical Momentum Screener (24h)"},
		{picks.Pass{Strategy: contracts.StrategyComposite}, "Composite Rating Engine"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PassTitle(tt.pass))
	}
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "70", FormatScore(70))
	assert.Equal(t, "72.5", FormatScore(72.5))
}
