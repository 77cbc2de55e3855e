// Package entity defines the domain models for the charts feature.
package entity

import (
	"sort"
	"time"
)

// Candle represents OHLCV (Open, High, Low, Close, Volume) candlestick data
// for a stock symbol at a specific time interval.
type Candle struct {
	Symbol   string    // Stock ticker symbol (e.g., "AAPL", "7203.T")
	Interval Interval  // Bar granularity (e.g., "1day", "1week", "1month")
	Time     time.Time // Timestamp for the start of this candle period
	Open     float64   // Opening price
	High     float64   // Highest price during this period
	Low      float64   // Lowest price during this period
	Close    float64   // Closing price
	Volume   int64     // Trading volume
}

// Valid reports whether the bar satisfies 0 < low <= open,close <= high and volume >= 0.
func (c Candle) Valid() bool {
	if c.Low <= 0 || c.Volume < 0 {
		return false
	}
	if c.Open < c.Low || c.Open > c.High {
		return false
	}
	return c.Close >= c.Low && c.Close <= c.High
}

// Normalize returns the bars sorted by ascending time with invalid bars removed.
// When two bars share a timestamp the one appearing later in the input wins.
func Normalize(bars []Candle) []Candle {
	out := make([]Candle, 0, len(bars))
	for _, b := range bars {
		if b.Valid() {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	deduped := out[:0]
	for _, b := range out {
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(b.Time) {
			deduped[n-1] = b
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped
}

// Closes extracts the close prices in order.
func Closes(bars []Candle) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high prices in order.
func Highs(bars []Candle) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low prices in order.
func Lows(bars []Candle) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}
