package indicator

// EMA returns the exponential moving average of values with smoothing
// factor 2/(span+1). The recursion is seeded with the first input value,
// so every index is defined.
func EMA(values []float64, span int) Series {
	out := Undefined(len(values))
	if len(values) == 0 || span <= 0 {
		return out
	}

	alpha := 2.0 / float64(span+1)
	prev := values[0]
	out[0] = Defined(prev)
	for t := 1; t < len(values); t++ {
		prev = alpha*values[t] + (1-alpha)*prev
		out[t] = Defined(prev)
	}
	return out
}
