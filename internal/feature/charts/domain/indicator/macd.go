package indicator

const (
	MACDFastSpan   = 12
	MACDSlowSpan   = 26
	MACDSignalSpan = 9
)

// MACDResult holds the three MACD lines, index-aligned with the input.
type MACDResult struct {
	Line      Series
	Signal    Series
	Histogram Series
}

// ComputeMACD returns MACD(12,26,9) over closes. Because the EMAs are
// seeded with the first close, the lines have no warm-up gap.
func ComputeMACD(closes []float64) MACDResult {
	n := len(closes)
	res := MACDResult{Line: Undefined(n), Signal: Undefined(n), Histogram: Undefined(n)}
	if n == 0 {
		return res
	}

	fast := EMA(closes, MACDFastSpan)
	slow := EMA(closes, MACDSlowSpan)
	line := make([]float64, n)
	for t := range closes {
		line[t] = fast[t].Value - slow[t].Value
		res.Line[t] = Defined(line[t])
	}

	res.Signal = EMA(line, MACDSignalSpan)
	for t := range line {
		res.Histogram[t] = Defined(line[t] - res.Signal[t].Value)
	}
	return res
}
