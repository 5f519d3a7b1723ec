package scoring

import (
	"fmt"

	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/pkg/logger"
)

// CANSLIMScorer rates growth stocks on the seven CAN SLIM criteria.
// Points: C 20, A 15, N 15, S 10, L 20, I 10, M 10.
// ⭐ SSOT: CAN SLIM 점수 계산은 여기서만
type CANSLIMScorer struct {
	logger *logger.Logger
}

// NewCANSLIMScorer creates a new CAN SLIM scorer
func NewCANSLIMScorer(log *logger.Logger) *CANSLIMScorer {
	return &CANSLIMScorer{logger: log}
}

// Score rates md. The window is ignored.
// No opinion without a last price and a 52-week high.
func (s *CANSLIMScorer) Score(md *contracts.MarketData, _ contracts.Window) (contracts.Pick, bool) {
	if !md.HasQuote() || !md.Quote.High52W.IsPositive() {
		return contracts.Pick{}, false
	}

	var reasons []string
	price := md.Quote.Price.InexactFloat64()
	f := md.Fundamentals

	c := s.currentEarnings(f, &reasons)
	a := s.annualEarnings(f, &reasons)

	// N: new highs
	n := 0.0
	nearHigh := price / md.Quote.High52W.InexactFloat64()
	switch {
	case nearHigh >= 0.95:
		n = 15
		reasons = append(reasons, "Trading near 52-week high")
	case nearHigh >= 0.85:
		n = 10
		reasons = append(reasons, fmt.Sprintf("Within %.0f%% of 52-week high", (1-nearHigh)*100))
	case nearHigh >= 0.75:
		n = 4
	}

	// S: supply and demand
	sd := 0.0
	if md.Quote.AvgVolume3M > 0 {
		volRatio := float64(md.Quote.Volume) / float64(md.Quote.AvgVolume3M)
		switch {
		case volRatio >= 1.5:
			sd = 10
			reasons = append(reasons, fmt.Sprintf("Volume %.1fx the 3-month average", volRatio))
		case volRatio >= 1.0:
			sd = 6
		default:
			sd = 2
		}
	}

	l := s.leadership(md, price, &reasons)

	// I: institutional sponsorship
	inst := 0.0
	if f.InstOwnership != nil {
		own := *f.InstOwnership
		switch {
		case own >= 20 && own <= 85:
			inst = 10
			reasons = append(reasons, fmt.Sprintf("Institutional ownership %.0f%%", own))
		case own > 85:
			inst = 5
		}
	}

	// M: market direction, the stock's own long trend as proxy
	m := 0.0
	if md.Quote.FiftyDayAvg > 0 && md.Quote.TwoHundredAvg > 0 && md.Quote.FiftyDayAvg > md.Quote.TwoHundredAvg {
		m = 10
		reasons = append(reasons, "50-day average above 200-day average")
	}

	total := c + a + n + sd + l + inst + m

	s.logger.WithFields(map[string]interface{}{
		"symbol": md.Symbol,
		"c":      c,
		"a":      a,
		"n":      n,
		"s":      sd,
		"l":      l,
		"i":      inst,
		"m":      m,
		"total":  total,
	}).Debug("Calculated CAN SLIM score")

	return newPick(md, total, "CAN SLIM Growth", "long-term", reasons, map[string]float64{
		"c": c, "a": a, "n": n, "s": sd, "l": l, "i": inst, "m": m,
	}), true
}

// currentEarnings scores C: quarterly EPS growth, falling back to forward vs trailing EPS
func (s *CANSLIMScorer) currentEarnings(f contracts.Fundamentals, reasons *[]string) float64 {
	if f.EPSGrowthQoQ != nil {
		g := *f.EPSGrowthQoQ
		switch {
		case g >= 25:
			*reasons = append(*reasons, fmt.Sprintf("Quarterly EPS up %.0f%%", g))
			return 20
		case g >= 15:
			return 12
		case g > 0:
			return 6
		}
		return 0
	}

	if f.EPSTrailing > 0 && f.EPSForward > f.EPSTrailing {
		return 8
	}
	return 0
}

// annualEarnings scores A: this year's EPS growth.
// Quarterly sales growth of 25%+ backs up moderate earnings growth.
func (s *CANSLIMScorer) annualEarnings(f contracts.Fundamentals, reasons *[]string) float64 {
	salesUp := f.SalesGrowthQoQ != nil && *f.SalesGrowthQoQ >= 25

	if f.EPSGrowthThisYear != nil {
		g := *f.EPSGrowthThisYear
		switch {
		case g >= 25:
			*reasons = append(*reasons, fmt.Sprintf("Annual EPS growth %.0f%%", g))
			return 15
		case g >= 10 && salesUp:
			*reasons = append(*reasons, fmt.Sprintf("Annual EPS growth %.0f%% with sales up %.0f%%", g, *f.SalesGrowthQoQ))
			return 12
		case g >= 10:
			return 8
		}
		return 0
	}

	switch {
	case f.EPSTrailing > 0 && f.EPSForward > f.EPSTrailing*1.15:
		*reasons = append(*reasons, "Forward EPS 15%+ above trailing")
		return 10
	case salesUp:
		*reasons = append(*reasons, fmt.Sprintf("Quarterly sales up %.0f%%", *f.SalesGrowthQoQ))
		return 8
	case f.EPSTrailing > 0:
		return 4
	}
	return 0
}

// leadership scores L: trading above key averages with a strong 3-month return
func (s *CANSLIMScorer) leadership(md *contracts.MarketData, price float64, reasons *[]string) float64 {
	l := 0.0
	if md.Quote.FiftyDayAvg > 0 && price > md.Quote.FiftyDayAvg {
		l += 7
	}
	if md.Quote.TwoHundredAvg > 0 && price > md.Quote.TwoHundredAvg {
		l += 7
	}

	lookback := len(md.Bars) - 1
	if lookback > 63 {
		lookback = 63
	}
	if lookback >= 20 {
		if ret, ok := md.Return(lookback); ok {
			switch {
			case ret >= 0.20:
				l += 6
				*reasons = append(*reasons, fmt.Sprintf("Up %.0f%% over 3 months", ret*100))
			case ret >= 0.05:
				l += 3
			}
		}
	}
	return l
}
