package indicator

import "gonum.org/v1/gonum/stat"

// RSIPeriod is the fixed RSI window.
const RSIPeriod = 14

// ComputeRSI returns the relative strength index using trailing simple means
// of gains and losses over period deltas. Index t is defined once period
// deltas exist, i.e. for t >= period. A window without losses yields exactly 100.
func ComputeRSI(closes []float64, period int) Series {
	n := len(closes)
	out := Undefined(n)
	if period <= 0 || n <= period {
		return out
	}

	// gains[0] and losses[0] stay zero; there is no delta at the first bar.
	gains := make([]float64, n)
	losses := make([]float64, n)
	for t := 1; t < n; t++ {
		d := closes[t] - closes[t-1]
		if d > 0 {
			gains[t] = d
		} else if d < 0 {
			losses[t] = -d
		}
	}

	for t := period; t < n; t++ {
		lo, hi := t-period+1, t+1
		avgLoss := stat.Mean(losses[lo:hi], nil)
		if avgLoss == 0 {
			out[t] = Defined(100)
			continue
		}
		rs := stat.Mean(gains[lo:hi], nil) / avgLoss
		out[t] = Defined(100 - 100/(1+rs))
	}
	return out
}
