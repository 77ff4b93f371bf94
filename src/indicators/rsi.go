package indicators

import "math"

const RsiPeriod = 14

// Rsi computes the relative strength index at the last index of closes, using
// simple averages of gains and losses over the trailing period deltas. The
// second return value is false until period+1 closes are available.
//
// When the average loss is zero the RSI saturates at 100 instead of going to
// infinity; a constant series therefore reads as 100, never NaN.
func Rsi(closes []float64, period int) (float64, bool) {
	if len(closes) < period+1 {
		return 0, false
	}

	window := closes[len(closes)-period-1:]

	var gainSum, lossSum float64
	for i := 1; i < len(window); i++ {
		delta := window[i] - window[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum += math.Abs(delta)
		}
	}

	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)

	if avgLoss == 0 {
		return 100, true
	}

	rs := avgGain / avgLoss

	return 100 - 100/(1+rs), true
}
