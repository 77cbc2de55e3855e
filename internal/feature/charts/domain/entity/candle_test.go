package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bar(day int, price float64) Candle {
	return Candle{
		Symbol: "AAPL", Interval: Interval1Day,
		Time: time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		Open: price, High: price + 1, Low: price - 1, Close: price, Volume: 100,
	}
}

func TestCandle_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *Candle)
		want   bool
	}{
		{name: "well formed", mutate: func(*Candle) {}, want: true},
		{name: "zero low", mutate: func(c *Candle) { c.Low = 0 }, want: false},
		{name: "open above high", mutate: func(c *Candle) { c.Open = c.High + 0.01 }, want: false},
		{name: "close below low", mutate: func(c *Candle) { c.Close = c.Low - 0.01 }, want: false},
		{name: "negative volume", mutate: func(c *Candle) { c.Volume = -1 }, want: false},
		{name: "zero volume", mutate: func(c *Candle) { c.Volume = 0 }, want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := bar(1, 10)
			tt.mutate(&c)
			assert.Equal(t, tt.want, c.Valid())
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	broken := bar(2, 11)
	broken.High = 5

	replaced := bar(3, 99)
	in := []Candle{bar(3, 12), bar(1, 10), broken, replaced, bar(4, 13)}

	got := Normalize(in)

	require.Len(t, got, 3)
	assert.Equal(t, []float64{10, 99, 13}, Closes(got))
	assert.Equal(t, []float64{11, 100, 14}, Highs(got))
	assert.Equal(t, []float64{9, 98, 12}, Lows(got))
}

func TestNormalize_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Normalize(nil))
}
