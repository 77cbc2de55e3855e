package indicator

// Zone is the interpretation of an oscillator reading.
type Zone string

const (
	ZoneOverbought Zone = "overbought"
	ZoneOversold   Zone = "oversold"
	ZoneNeutral    Zone = "neutral"
)

// Oscillator thresholds. Readings exactly on a threshold are neutral.
const (
	RSIOverbought       = 70.0
	RSIOversold         = 30.0
	WilliamsROverbought = -20.0
	WilliamsROversold   = -80.0
)

// ClassifyRSI maps an RSI reading to a zone.
func ClassifyRSI(v float64) Zone {
	return classify(v, RSIOverbought, RSIOversold)
}

// ClassifyWilliamsR maps a Williams %R reading to a zone.
func ClassifyWilliamsR(v float64) Zone {
	return classify(v, WilliamsROverbought, WilliamsROversold)
}

func classify(v, overbought, oversold float64) Zone {
	switch {
	case v > overbought:
		return ZoneOverbought
	case v < oversold:
		return ZoneOversold
	default:
		return ZoneNeutral
	}
}
