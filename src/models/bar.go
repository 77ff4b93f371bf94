package models

import "time"

// Bar is one period's OHLCV price record. Bars are immutable once fetched and
// are always handled as a sequence ordered by date ascending.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// EnrichedBar is a Bar plus indicator values. An indicator field is nil until
// enough preceding bars exist to compute it; nil must never be read as zero.
type EnrichedBar struct {
	Bar
	RSI   *float64 `json:"rsi,omitempty"`
	SMA20 *float64 `json:"sma20,omitempty"`
	SMA50 *float64 `json:"sma50,omitempty"`
	MACD  *float64 `json:"macd,omitempty"`
}
