package indicators

const (
	macdFastPeriod = 12
	macdSlowPeriod = 26
)

// Macd computes EMA(12) - EMA(26) over the closes available up to the current
// bar. The second return value is false until 26 closes are available.
func Macd(closes []float64) (float64, bool) {
	fast, ok := Ema(closes, macdFastPeriod)
	if !ok {
		return 0, false
	}

	slow, ok := Ema(closes, macdSlowPeriod)
	if !ok {
		return 0, false
	}

	return fast - slow, true
}
