package scoring

import (
	"fmt"

	"github.com/wonny/dailypicks/internal/contracts"
	"github.com/wonny/dailypicks/pkg/logger"
)

// MomentumScorer rates short-term price/volume trend over a window
// ⭐ SSOT: 단기 모멘텀 점수 계산은 여기서만
type MomentumScorer struct {
	logger *logger.Logger
}

// NewMomentumScorer creates a new momentum scorer
func NewMomentumScorer(log *logger.Logger) *MomentumScorer {
	return &MomentumScorer{logger: log}
}

// Score rates md over window. Unknown windows yield no opinion.
func (s *MomentumScorer) Score(md *contracts.MarketData, window contracts.Window) (contracts.Pick, bool) {
	switch window {
	case contracts.Window7D:
		return s.scoreWeek(md)
	case contracts.Window24H:
		return s.scoreDay(md)
	default:
		return contracts.Pick{}, false
	}
}

// scoreWeek uses the last five sessions (one trading week).
// Points: return 50, up-day consistency 20, volume surge 20, above SMA 10.
func (s *MomentumScorer) scoreWeek(md *contracts.MarketData) (contracts.Pick, bool) {
	const sessions = 5

	ret, ok := md.Return(sessions)
	if !ok {
		return contracts.Pick{}, false
	}

	var reasons []string
	closes := md.Closes()

	retPts := squash(ret*10, 50)
	if ret >= 0.05 {
		reasons = append(reasons, fmt.Sprintf("Up %.1f%% over 7 days", ret*100))
	}

	ups := upDays(closes, sessions)
	consistencyPts := float64(ups) * 4
	if ups >= 4 {
		reasons = append(reasons, fmt.Sprintf("%d of last %d sessions higher", ups, sessions))
	}

	volPts := 0.0
	recent := md.AvgVolume(sessions)
	prior := len(md.Bars) - sessions
	if prior > 20 {
		prior = 20
	}
	if prior > 0 && recent > 0 {
		base := averageVolume(md.Bars[len(md.Bars)-sessions-prior : len(md.Bars)-sessions])
		if base > 0 {
			ratio := recent / base
			volPts = ramp(ratio, 0.5, 2.0, 20)
			if ratio >= 1.5 {
				reasons = append(reasons, fmt.Sprintf("Volume %.1fx prior average", ratio))
			}
		}
	}

	trendPts := 0.0
	period := len(closes)
	if period > 20 {
		period = 20
	}
	if avg, ok := sma(closes, period); ok && closes[len(closes)-1] > avg {
		trendPts = 10
		reasons = append(reasons, fmt.Sprintf("Above %d-day average", period))
	}

	total := retPts + consistencyPts + volPts + trendPts

	s.logger.WithFields(map[string]interface{}{
		"symbol":    md.Symbol,
		"window":    "7d",
		"return":    ret,
		"up_days":   ups,
		"vol_pts":   volPts,
		"trend_pts": trendPts,
		"total":     total,
	}).Debug("Calculated momentum score")

	return newPick(md, total, "Technical Momentum (7d)", "short-term", reasons, map[string]float64{
		"return7d":    ret * 100,
		"upDays":      float64(ups),
		"volumePts":   volPts,
		"trendPts":    trendPts,
		"returnPts":   retPts,
		"consistency": consistencyPts,
	}), true
}

// scoreDay uses the live quote against the previous close.
// Points: change 50, position in day range 20, relative volume 20, above 50-day 10.
func (s *MomentumScorer) scoreDay(md *contracts.MarketData) (contracts.Pick, bool) {
	q := md.Quote
	if !md.HasQuote() || !q.PreviousClose.IsPositive() {
		return contracts.Pick{}, false
	}

	var reasons []string
	price := q.Price.InexactFloat64()

	change := q.ChangePercent
	if change == 0 {
		change = q.Price.Sub(q.PreviousClose).Div(q.PreviousClose).InexactFloat64() * 100
	}
	changePts := squash(change/100*20, 50)
	if change >= 3 {
		reasons = append(reasons, fmt.Sprintf("Up %.1f%% in 24h", change))
	}

	rangePts := 10.0
	high, low := q.DayHigh.InexactFloat64(), q.DayLow.InexactFloat64()
	if high > low && low > 0 {
		pos := (price - low) / (high - low)
		rangePts = clamp(pos, 0, 1) * 20
		if pos >= 0.8 {
			reasons = append(reasons, "Closing near the day's high")
		}
	}

	volPts := 0.0
	if q.AvgVolume10D > 0 {
		relVol := float64(q.Volume) / float64(q.AvgVolume10D)
		volPts = ramp(relVol, 0.5, 2.0, 20)
		if relVol >= 1.5 {
			reasons = append(reasons, fmt.Sprintf("Relative volume %.1fx", relVol))
		}
	}

	trendPts := 0.0
	if q.FiftyDayAvg > 0 && price > q.FiftyDayAvg {
		trendPts = 10
	}

	total := changePts + rangePts + volPts + trendPts

	s.logger.WithFields(map[string]interface{}{
		"symbol":    md.Symbol,
		"window":    "24h",
		"change":    change,
		"range_pts": rangePts,
		"vol_pts":   volPts,
		"total":     total,
	}).Debug("Calculated momentum score")

	return newPick(md, total, "Technical Momentum (24h)", "short-term", reasons, map[string]float64{
		"change24h": change,
		"changePts": changePts,
		"rangePts":  rangePts,
		"volumePts": volPts,
		"trendPts":  trendPts,
	}), true
}

func averageVolume(bars []contracts.Bar) float64 {
	if len(bars) == 0 {
		return 0
	}

	var sum int64
	for _, b := range bars {
		sum += b.Volume
	}
	return float64(sum) / float64(len(bars))
}
