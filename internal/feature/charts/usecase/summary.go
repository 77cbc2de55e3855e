package usecase

import (
	"time"

	"stock_chart/internal/feature/charts/domain/entity"
	"stock_chart/internal/feature/charts/domain/indicator"
)

// Trend compares the MACD line with its signal line.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendFlat    Trend = "flat"
)

// BandPosition places the last close relative to the Bollinger envelope.
type BandPosition string

const (
	BandAbove  BandPosition = "above"
	BandBelow  BandPosition = "below"
	BandInside BandPosition = "inside"
)

// OscillatorReading is the latest value of a bounded oscillator and its zone.
type OscillatorReading struct {
	Value float64
	Zone  indicator.Zone
}

// MACDReading is the latest MACD state.
type MACDReading struct {
	Line      float64
	Signal    float64
	Histogram float64
	Trend     Trend
}

// BandReading is the latest Bollinger envelope.
type BandReading struct {
	Upper    float64
	Middle   float64
	Lower    float64
	Position BandPosition
}

// Summary describes the most recent bar. Readings are nil when the
// indicator was not requested or is not yet defined at the last bar.
type Summary struct {
	AsOf      time.Time
	LastClose float64
	Change    float64
	ChangePct float64
	HasChange bool
	RSI       *OscillatorReading
	WilliamsR *OscillatorReading
	MACD      *MACDReading
	Bollinger *BandReading
}

// Summarize reads the last bar of candles and bundle. candles must be non-empty.
func Summarize(candles []entity.Candle, b indicator.Bundle) Summary {
	last := len(candles) - 1
	s := Summary{AsOf: candles[last].Time, LastClose: candles[last].Close}
	if last > 0 {
		prev := candles[last-1].Close
		s.Change = s.LastClose - prev
		s.ChangePct = s.Change / prev * 100
		s.HasChange = true
	}

	if v, ok := pointAt(b, indicator.RSI, indicator.KeyValue, last); ok {
		s.RSI = &OscillatorReading{Value: v, Zone: indicator.ClassifyRSI(v)}
	}
	if v, ok := pointAt(b, indicator.WilliamsR, indicator.KeyValue, last); ok {
		s.WilliamsR = &OscillatorReading{Value: v, Zone: indicator.ClassifyWilliamsR(v)}
	}

	line, okL := pointAt(b, indicator.MACD, indicator.KeyLine, last)
	sig, okS := pointAt(b, indicator.MACD, indicator.KeySignal, last)
	if okL && okS {
		m := &MACDReading{Line: line, Signal: sig, Histogram: line - sig, Trend: TrendFlat}
		switch {
		case line > sig:
			m.Trend = TrendBullish
		case line < sig:
			m.Trend = TrendBearish
		}
		s.MACD = m
	}

	up, okU := pointAt(b, indicator.BollingerBands, indicator.KeyUpper, last)
	mid, okM := pointAt(b, indicator.BollingerBands, indicator.KeyMiddle, last)
	lo, okLo := pointAt(b, indicator.BollingerBands, indicator.KeyLower, last)
	if okU && okM && okLo {
		r := &BandReading{Upper: up, Middle: mid, Lower: lo, Position: BandInside}
		switch {
		case s.LastClose > up:
			r.Position = BandAbove
		case s.LastClose < lo:
			r.Position = BandBelow
		}
		s.Bollinger = r
	}
	return s
}

// pointAt returns the defined value of an indicator sub-series at index i.
func pointAt(b indicator.Bundle, name indicator.Name, key string, i int) (float64, bool) {
	s, ok := b.Series(name, key)
	if !ok || i < 0 || i >= len(s) || !s[i].Valid {
		return 0, false
	}
	return s[i].Value, true
}
