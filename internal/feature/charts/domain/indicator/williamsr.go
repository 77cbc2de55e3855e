package indicator

import "gonum.org/v1/gonum/floats"

// WilliamsRPeriod is the fixed Williams %R window.
const WilliamsRPeriod = 14

// ComputeWilliamsR returns Williams %R over the trailing window [t-period+1, t].
// Like RSI it is defined from index period onward. A flat window
// (highest high == lowest low) leaves that index undefined.
func ComputeWilliamsR(highs, lows, closes []float64, period int) Series {
	n := len(closes)
	out := Undefined(n)
	if period <= 0 || n <= period || len(highs) != n || len(lows) != n {
		return out
	}

	for t := period; t < n; t++ {
		lo, hi := t-period+1, t+1
		hh := floats.Max(highs[lo:hi])
		ll := floats.Min(lows[lo:hi])
		if hh == ll {
			continue
		}
		out[t] = Defined(-100 * (hh - closes[t]) / (hh - ll))
	}
	return out
}
