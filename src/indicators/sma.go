package indicators

import "github.com/montanaflynn/stats"

// Sma computes the arithmetic mean of the last period closes. The second
// return value is false until period closes are available.
func Sma(closes []float64, period int) (float64, bool) {
	if len(closes) < period {
		return 0, false
	}

	mean, err := stats.Mean(closes[len(closes)-period:])
	if err != nil {
		return 0, false
	}

	return mean, true
}
