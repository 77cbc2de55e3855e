package indicator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	BollingerPeriod = 20
	BollingerK      = 2.0
)

// BollingerResult holds the bands and the standard deviation they were built from.
type BollingerResult struct {
	Upper  Series
	Middle Series
	Lower  Series
	StdDev Series
}

// ComputeBollinger returns Bollinger Bands over the trailing window [t-period+1, t].
// The deviation is the sample standard deviation (n-1 denominator).
// Index t is defined for t >= period-1.
func ComputeBollinger(closes []float64, period int, k float64) BollingerResult {
	n := len(closes)
	res := BollingerResult{Upper: Undefined(n), Middle: Undefined(n), Lower: Undefined(n), StdDev: Undefined(n)}
	if period < 2 || n < period {
		return res
	}

	for t := period - 1; t < n; t++ {
		mean, variance := stat.MeanVariance(closes[t-period+1:t+1], nil)
		// rounding in the compensated sum can leave a tiny negative variance
		if variance < 0 {
			variance = 0
		}
		sd := math.Sqrt(variance)
		res.Middle[t] = Defined(mean)
		res.StdDev[t] = Defined(sd)
		res.Upper[t] = Defined(mean + k*sd)
		res.Lower[t] = Defined(mean - k*sd)
	}
	return res
}
