package picks

import (
	"fmt"

	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/internal/universe"
)

// DefaultTopN is the number of picks kept after ranking
const DefaultTopN = 20

// Pass is one scoring sweep over the fetched set
type Pass struct {
	Strategy contracts.StrategyID
	Window   contracts.Window
	MinScore float64 // inclusive
}

// Name renders the pass for logs and the progress report
func (p Pass) Name() string {
	if p.Window == contracts.WindowNone {
		return string(p.Strategy)
	}
	return fmt.Sprintf("%s(%s)", p.Strategy, p.Window)
}

// Strategy bundles everything a run needs to pick stocks
// ⭐ SSOT: 유니버스 + 패스 + TopN 설정
type Strategy struct {
	Universe universe.Universe
	Passes   []Pass // run in order; order breaks score ties
	TopN     int
}

// DefaultStrategy returns the compiled-in universe and passes
func DefaultStrategy() Strategy {
	return Strategy{
		Universe: universe.Default(),
		Passes:   DefaultPasses(),
		TopN:     DefaultTopN,
	}
}

// DefaultPasses returns the four standard passes in tie-break order
func DefaultPasses() []Pass {
	return []Pass{
		{Strategy: contracts.StrategyCANSLIM, Window: contracts.WindowNone, MinScore: 50},
		{Strategy: contracts.StrategyMomentum, Window: contracts.Window7D, MinScore: 50},
		{Strategy: contracts.StrategyMomentum, Window: contracts.Window24H, MinScore: 60},
		{Strategy: contracts.StrategyComposite, Window: contracts.WindowNone, MinScore: 55},
	}
}
