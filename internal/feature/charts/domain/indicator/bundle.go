package indicator

import "stock_chart/internal/feature/charts/domain/entity"

// Sub-series keys inside an Output.
const (
	KeyValue     = "value"
	KeyLine      = "line"
	KeySignal    = "signal"
	KeyHistogram = "histogram"
	KeyUpper     = "upper"
	KeyMiddle    = "middle"
	KeyLower     = "lower"
	KeyStdDev    = "stddev"
)

// Output is the set of named sub-series produced by one indicator.
// Single-line indicators use KeyValue.
type Output map[string]Series

// Bundle maps each requested indicator to its output. Consumers look
// indicators up by name; an absent key means it was not requested.
type Bundle map[Name]Output

// Series returns one sub-series of an indicator.
func (b Bundle) Series(name Name, key string) (Series, bool) {
	out, ok := b[name]
	if !ok {
		return nil, false
	}
	s, ok := out[key]
	return s, ok
}

// Compute derives the requested indicators from candles, which must be in
// ascending time order. No names means every indicator.
func Compute(candles []entity.Candle, requested ...Name) Bundle {
	if len(requested) == 0 {
		requested = All
	}

	closes := entity.Closes(candles)
	b := make(Bundle, len(requested))
	for _, name := range requested {
		if _, done := b[name]; done {
			continue
		}
		switch name {
		case Volume:
			vol := make(Series, len(candles))
			for i, c := range candles {
				vol[i] = Defined(float64(c.Volume))
			}
			b[name] = Output{KeyValue: vol}
		case MACD:
			m := ComputeMACD(closes)
			b[name] = Output{KeyLine: m.Line, KeySignal: m.Signal, KeyHistogram: m.Histogram}
		case RSI:
			b[name] = Output{KeyValue: ComputeRSI(closes, RSIPeriod)}
		case WilliamsR:
			wr := ComputeWilliamsR(entity.Highs(candles), entity.Lows(candles), closes, WilliamsRPeriod)
			b[name] = Output{KeyValue: wr}
		case BollingerBands:
			bb := ComputeBollinger(closes, BollingerPeriod, BollingerK)
			b[name] = Output{KeyUpper: bb.Upper, KeyMiddle: bb.Middle, KeyLower: bb.Lower, KeyStdDev: bb.StdDev}
		}
	}
	return b
}
