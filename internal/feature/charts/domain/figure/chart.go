// Package figure assembles candles and indicator outputs into a stacked,
// panel-based chart description that renderers (Plotly JSON, PNG) consume.
package figure

import (
	"fmt"
	"time"

	"stock_chart/internal/feature/charts/domain/entity"
	"stock_chart/internal/feature/charts/domain/indicator"
)

const (
	// DefaultHeight is the total figure height in pixels.
	DefaultHeight = 800
	// Spacing is the vertical gap between panels as a fraction of the figure height.
	Spacing = 0.02

	priceWeight     = 5.0
	indicatorWeight = 1.0
)

// Kind selects how a trace is drawn.
type Kind string

const (
	KindCandlestick Kind = "candlestick"
	KindLine        Kind = "line"
	KindBar         Kind = "bar"
)

// Color is an RGBA color; A is the opacity (255 = opaque).
type Color struct {
	R, G, B, A uint8
}

// CSS renders the color as a CSS rgba() string.
func (c Color) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %.2g)", c.R, c.G, c.B, float64(c.A)/255)
}

var (
	ColorBand    = Color{R: 255, G: 165, A: 128}
	ColorAverage = Color{B: 255, A: 128}
	ColorBlue    = Color{B: 255, A: 255}
	ColorRed     = Color{R: 255, A: 255}
	ColorGrey    = Color{R: 128, G: 128, B: 128, A: 160}
	ColorVolume  = Color{R: 99, G: 110, B: 250, A: 255}
	ColorSeries  = Color{R: 31, G: 119, B: 180, A: 255}
)

// OHLC carries the raw prices of a candlestick trace.
type OHLC struct {
	Open, High, Low, Close []float64
}

// Trace is one drawn series inside a panel, index-aligned with Chart.Times.
type Trace struct {
	Name   string
	Kind   Kind
	Values indicator.Series // line and bar traces
	OHLC   *OHLC            // candlestick traces
	Color  Color
}

// Guide is a dashed horizontal reference line.
type Guide struct {
	Value float64
	Color Color
}

// Panel is one row of the stacked chart.
type Panel struct {
	Key    string
	Title  string
	Weight float64
	Traces []Trace
	Guides []Guide
}

// Chart is the composed, renderer-agnostic chart.
type Chart struct {
	Title  string
	Height int
	Times  []time.Time
	Panels []Panel
}

type panelBuilder func(b indicator.Bundle) (Panel, bool)

// subPanels lists the indicator panels in display order below the price panel.
// A panel is emitted only when its indicator is present in the bundle.
var subPanels = []struct {
	name  indicator.Name
	build panelBuilder
}{
	{indicator.Volume, volumePanel},
	{indicator.MACD, macdPanel},
	{indicator.RSI, rsiPanel},
	{indicator.WilliamsR, williamsRPanel},
}

// Compose lays out the price panel followed by one panel per requested
// oscillator. Bollinger Bands are overlaid on the price panel.
func Compose(symbol string, candles []entity.Candle, b indicator.Bundle) *Chart {
	times := make([]time.Time, len(candles))
	for i, c := range candles {
		times[i] = c.Time
	}

	ch := &Chart{
		Title:  fmt.Sprintf("%s stock chart", symbol),
		Height: DefaultHeight,
		Times:  times,
		Panels: []Panel{pricePanel(candles, b)},
	}
	for _, sp := range subPanels {
		if _, ok := b[sp.name]; !ok {
			continue
		}
		if p, ok := sp.build(b); ok {
			ch.Panels = append(ch.Panels, p)
		}
	}
	return ch
}

func pricePanel(candles []entity.Candle, b indicator.Bundle) Panel {
	opens := make([]float64, len(candles))
	for i, c := range candles {
		opens[i] = c.Open
	}
	p := Panel{
		Key:    "price",
		Title:  "Price",
		Weight: priceWeight,
		Traces: []Trace{{
			Name: "Price",
			Kind: KindCandlestick,
			OHLC: &OHLC{Open: opens, High: entity.Highs(candles), Low: entity.Lows(candles), Close: entity.Closes(candles)},
		}},
	}

	overlays := []struct {
		key   string
		name  string
		color Color
	}{
		{indicator.KeyUpper, "Upper Band", ColorBand},
		{indicator.KeyLower, "Lower Band", ColorBand},
		{indicator.KeyMiddle, "20-day MA", ColorAverage},
	}
	for _, o := range overlays {
		if s, ok := b.Series(indicator.BollingerBands, o.key); ok {
			p.Traces = append(p.Traces, Trace{Name: o.name, Kind: KindLine, Values: s, Color: o.color})
		}
	}
	return p
}

func volumePanel(b indicator.Bundle) (Panel, bool) {
	s, ok := b.Series(indicator.Volume, indicator.KeyValue)
	if !ok {
		return Panel{}, false
	}
	return Panel{
		Key: "volume", Title: "Volume", Weight: indicatorWeight,
		Traces: []Trace{{Name: "Volume", Kind: KindBar, Values: s, Color: ColorVolume}},
	}, true
}

func macdPanel(b indicator.Bundle) (Panel, bool) {
	line, ok := b.Series(indicator.MACD, indicator.KeyLine)
	if !ok {
		return Panel{}, false
	}
	p := Panel{Key: "macd", Title: "MACD", Weight: indicatorWeight}
	if hist, ok := b.Series(indicator.MACD, indicator.KeyHistogram); ok {
		p.Traces = append(p.Traces, Trace{Name: "Histogram", Kind: KindBar, Values: hist, Color: ColorGrey})
	}
	p.Traces = append(p.Traces, Trace{Name: "MACD", Kind: KindLine, Values: line, Color: ColorBlue})
	if sig, ok := b.Series(indicator.MACD, indicator.KeySignal); ok {
		p.Traces = append(p.Traces, Trace{Name: "Signal Line", Kind: KindLine, Values: sig, Color: ColorRed})
	}
	return p, true
}

func rsiPanel(b indicator.Bundle) (Panel, bool) {
	s, ok := b.Series(indicator.RSI, indicator.KeyValue)
	if !ok {
		return Panel{}, false
	}
	return Panel{
		Key: "rsi", Title: "RSI", Weight: indicatorWeight,
		Traces: []Trace{{Name: "RSI", Kind: KindLine, Values: s, Color: ColorSeries}},
		Guides: []Guide{{Value: indicator.RSIOverbought, Color: ColorRed}, {Value: indicator.RSIOversold, Color: ColorBlue}},
	}, true
}

func williamsRPanel(b indicator.Bundle) (Panel, bool) {
	s, ok := b.Series(indicator.WilliamsR, indicator.KeyValue)
	if !ok {
		return Panel{}, false
	}
	return Panel{
		Key: "williamsr", Title: "Williams %R", Weight: indicatorWeight,
		Traces: []Trace{{Name: "Williams %R", Kind: KindLine, Values: s, Color: ColorSeries}},
		Guides: []Guide{{Value: indicator.WilliamsROverbought, Color: ColorRed}, {Value: indicator.WilliamsROversold, Color: ColorBlue}},
	}, true
}
