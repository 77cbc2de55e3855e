// Package indicator computes technical indicators over an OHLCV series.
//
// Every function is pure: identical input produces identical output, nothing
// is read from the clock or from package state, and no function returns an
// error. When the input is too short for an indicator's warm-up window the
// result is a series of undefined points of the same length.
package indicator

import (
	"encoding/json"
	"math"
)

// Point is one entry of an indicator series. Valid is false while the
// indicator is not yet computable; Value is meaningless in that case.
type Point struct {
	Value float64
	Valid bool
}

// Defined returns a valid point holding v.
func Defined(v float64) Point { return Point{Value: v, Valid: true} }

// MarshalJSON encodes undefined points as null so they never read as zero.
func (p Point) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// UnmarshalJSON accepts a number or null.
func (p *Point) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Point{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Defined(v)
	return nil
}

// Series is index-aligned with the candles it was derived from.
type Series []Point

// Undefined returns a series of n undefined points.
func Undefined(n int) Series {
	return make(Series, n)
}

// Last returns the most recent defined value.
func (s Series) Last() (float64, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Valid {
			return s[i].Value, true
		}
	}
	return 0, false
}

// FirstValid returns the index of the first defined point, or -1.
func (s Series) FirstValid() int {
	for i, p := range s {
		if p.Valid {
			return i
		}
	}
	return -1
}

// Finite reports whether every defined point is a finite number.
func (s Series) Finite() bool {
	for _, p := range s {
		if p.Valid && (math.IsNaN(p.Value) || math.IsInf(p.Value, 0)) {
			return false
		}
	}
	return true
}
