package strategyconfig

import (
	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/internal/picks"
	"github.com/wonny/dailypicks/internal/universe"
)

// Config는 종목 선정 전략 파일의 전체 설정
// Empty sections fall back to the compiled-in defaults.
type Config struct {
	Universe []Category `yaml:"universe" json:"universe" validate:"omitempty,dive"`
	Passes   []Pass     `yaml:"passes" json:"passes" validate:"omitempty,dive"`
	TopN     int        `yaml:"top_n" json:"top_n" default:"20" validate:"gte=1,lte=100"`
}

// Category 유니버스 카테고리
type Category struct {
	Name    string   `yaml:"name" json:"name" validate:"required"`
	Symbols []string `yaml:"symbols" json:"symbols" validate:"min=1,dive,required,uppercase"`
}

// Pass 스코어링 패스 (순서 = 동점 우선순위)
type Pass struct {
	Strategy string  `yaml:"strategy" json:"strategy" validate:"required,oneof=canslim momentum composite"`
	Window   string  `yaml:"window,omitempty" json:"window,omitempty" validate:"omitempty,oneof=7d 24h"`
	MinScore float64 `yaml:"min_score" json:"min_score" validate:"gte=0,lte=100"`
}

// Default returns the compiled-in strategy as a Config
func Default() *Config {
	cfg := &Config{TopN: picks.DefaultTopN}

	for _, c := range universe.Default().Categories {
		cfg.Universe = append(cfg.Universe, Category{
			Name:    c.Name,
			Symbols: append([]string(nil), c.Symbols...),
		})
	}

	for _, p := range picks.DefaultPasses() {
		cfg.Passes = append(cfg.Passes, Pass{
			Strategy: string(p.Strategy),
			Window:   string(p.Window),
			MinScore: p.MinScore,
		})
	}

	return cfg
}

// Strategy converts the file into the aggregator's strategy
func (c *Config) Strategy() picks.Strategy {
	s := picks.DefaultStrategy()

	if len(c.Universe) > 0 {
		u := universe.Universe{}
		for _, cat := range c.Universe {
			u.Categories = append(u.Categories, universe.Category{
				Name:    cat.Name,
				Symbols: append([]string(nil), cat.Symbols...),
			})
		}
		s.Universe = u
	}

	if len(c.Passes) > 0 {
		s.Passes = make([]picks.Pass, 0, len(c.Passes))
		for _, p := range c.Passes {
			s.Passes = append(s.Passes, picks.Pass{
				Strategy: contracts.StrategyID(p.Strategy),
				Window:   contracts.Window(p.Window),
				MinScore: p.MinScore,
			})
		}
	}

	if c.TopN > 0 {
		s.TopN = c.TopN
	}

	return s
}
