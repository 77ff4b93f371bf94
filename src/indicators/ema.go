package indicators

// Ema computes an exponential moving average over all closes available up to
// the current bar, seeded with the first close. The recompute-per-bar approach
// is O(n²) over a series but the series here are at most a few hundred bars.
// The second return value is false until period closes are available.
func Ema(closes []float64, period int) (float64, bool) {
	if len(closes) < period {
		return 0, false
	}

	k := 2.0 / (float64(period) + 1.0)

	ema := closes[0]
	for _, close := range closes[1:] {
		ema = close*k + ema*(1-k)
	}

	return ema, true
}
