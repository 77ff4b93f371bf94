// Package indicators provides pure technical indicator math over bar series.
// All functions are deterministic for a given slice of closes and keep no
// hidden state.
package indicators

import (
	"github.com/darshanhiteshshah/virtual-stock-simulator/src/models"
)

// Enrich maps a bar series onto a same-length series of EnrichedBar. Each
// indicator value is computed only from the bars up to and including that
// index and stays nil while the warmup window is incomplete.
func Enrich(bars []models.Bar) []models.EnrichedBar {
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	enriched := make([]models.EnrichedBar, len(bars))
	for i := range bars {
		eb := models.EnrichedBar{Bar: bars[i]}
		prefix := closes[:i+1]

		if v, ok := Rsi(prefix, RsiPeriod); ok {
			eb.RSI = ptr(v)
		}

		if v, ok := Sma(prefix, 20); ok {
			eb.SMA20 = ptr(v)
		}

		if v, ok := Sma(prefix, 50); ok {
			eb.SMA50 = ptr(v)
		}

		if v, ok := Macd(prefix); ok {
			eb.MACD = ptr(v)
		}

		enriched[i] = eb
	}

	return enriched
}

func ptr(v float64) *float64 {
	return &v
}
