package scoring

import "math"

// sma averages the last n values. ok is false when fewer than n exist.
func sma(values []float64, n int) (float64, bool) {
	if n <= 0 || len(values) < n {
		return 0, false
	}

	var sum float64
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n), true
}

// rsi calculates the Relative Strength Index over the last period changes.
// values are oldest first.
func rsi(values []float64, period int) float64 {
	if len(values) < period+1 {
		return 50.0 // Neutral
	}

	var gains, losses float64
	start := len(values) - period
	for i := start; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	if losses == 0 {
		return 100.0
	}

	rs := (gains / float64(period)) / (losses / float64(period))
	return 100 - (100 / (1 + rs))
}

// upDays counts closes above the prior close within the last n changes
func upDays(values []float64, n int) int {
	count := 0
	for i := len(values) - n; i < len(values); i++ {
		if i <= 0 {
			continue
		}
		if values[i] > values[i-1] {
			count++
		}
	}
	return count
}

// squash maps any real onto (0, top) with x=0 landing at top/2
func squash(x, top float64) float64 {
	return top * (math.Tanh(x) + 1) / 2
}

// ramp scales x linearly from lo→0 to hi→top, clamped
func ramp(x, lo, hi, top float64) float64 {
	if hi <= lo {
		return 0
	}
	return clamp((x-lo)/(hi-lo), 0, 1) * top
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// finalScore rounds and clamps a point total to 0-100
func finalScore(points float64) float64 {
	return clamp(math.Round(points), 0, 100)
}
