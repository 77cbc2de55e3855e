// Package pngchart renders a composed chart to a PNG image with go-chart.
// go-chart draws one plot per canvas, so each panel is rendered on its own
// and the panels are stacked into a single image.
package pngchart

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"stock_chart/internal/feature/charts/domain/figure"
	"stock_chart/internal/feature/charts/domain/indicator"
)

const (
	DefaultWidth = 1200
	// MinPanelHeight keeps small indicator panels tall enough for their axes.
	MinPanelHeight = 120
	rangePadding   = 0.05
)

// ErrTooFewBars is returned when no panel has two plottable points.
var ErrTooFewBars = errors.New("pngchart: at least two bars are required")

// Renderer draws figure.Chart values as PNG.
type Renderer struct {
	Width int
}

// NewRenderer returns a renderer producing images of the given width.
// A non-positive width selects DefaultWidth.
func NewRenderer(width int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Renderer{Width: width}
}

// ContentType is the MIME type of the rendered image.
func (r *Renderer) ContentType() string { return "image/png" }

// Render writes the chart to w as a single PNG.
func (r *Renderer) Render(w io.Writer, c *figure.Chart) error {
	if c == nil || len(c.Times) < 2 {
		return ErrTooFewBars
	}

	heights := panelHeights(c)
	images := make([]image.Image, 0, len(c.Panels))
	total := 0
	for i, p := range c.Panels {
		title := p.Title
		if i == 0 {
			title = c.Title
		}
		img, err := r.renderPanel(title, c.Times, p, heights[i])
		if errors.Is(err, errEmptyPanel) {
			continue
		}
		if err != nil {
			return fmt.Errorf("render panel %s: %w", p.Key, err)
		}
		images = append(images, img)
		total += img.Bounds().Dy()
	}
	if len(images) == 0 {
		return ErrTooFewBars
	}

	out := image.NewRGBA(image.Rect(0, 0, r.Width, total))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	y := 0
	for _, img := range images {
		b := img.Bounds()
		draw.Draw(out, image.Rect(0, y, b.Dx(), y+b.Dy()), img, b.Min, draw.Over)
		y += b.Dy()
	}
	return png.Encode(w, out)
}

var errEmptyPanel = errors.New("panel has nothing to plot")

func (r *Renderer) renderPanel(title string, times []time.Time, p figure.Panel, height int) (image.Image, error) {
	var (
		series []chart.Series
		values []float64
	)
	for _, tr := range p.Traces {
		s, ys := traceSeries(times, tr)
		if s == nil {
			continue
		}
		series = append(series, s...)
		values = append(values, ys...)
	}
	if len(series) == 0 {
		return nil, errEmptyPanel
	}
	for _, g := range p.Guides {
		series = append(series, guideSeries(times, g))
		values = append(values, g.Value)
	}

	lo, hi := yRange(values)
	ch := chart.Chart{
		Title:  title,
		Width:  r.Width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 30, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		YAxis: chart.YAxis{
			Name:  p.Title,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.LegendLeft(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// traceSeries converts a trace to go-chart series. Undefined points are
// dropped; a trace left with fewer than two points is skipped.
// Candlesticks are drawn as the close line plus a faint high/low envelope.
func traceSeries(times []time.Time, tr figure.Trace) ([]chart.Series, []float64) {
	style := chart.Style{StrokeColor: toDrawing(tr.Color), StrokeWidth: 1.5}
	switch tr.Kind {
	case figure.KindCandlestick:
		if tr.OHLC == nil || len(tr.OHLC.Close) < 2 {
			return nil, nil
		}
		envelope := chart.Style{StrokeColor: drawing.Color{R: 160, G: 160, B: 160, A: 160}, StrokeWidth: 1}
		closeStyle := chart.Style{StrokeColor: toDrawing(figure.ColorSeries), StrokeWidth: 2}
		series := []chart.Series{
			chart.TimeSeries{Name: "High", Style: envelope, XValues: times, YValues: tr.OHLC.High},
			chart.TimeSeries{Name: "Low", Style: envelope, XValues: times, YValues: tr.OHLC.Low},
			chart.TimeSeries{Name: "Close", Style: closeStyle, XValues: times, YValues: tr.OHLC.Close},
		}
		values := make([]float64, 0, 2*len(tr.OHLC.High))
		values = append(values, tr.OHLC.High...)
		values = append(values, tr.OHLC.Low...)
		return series, values
	case figure.KindBar:
		style.FillColor = toDrawing(tr.Color).WithAlpha(96)
	}

	xs, ys := defined(times, tr.Values)
	if len(xs) < 2 {
		return nil, nil
	}
	series := []chart.Series{chart.TimeSeries{Name: tr.Name, Style: style, XValues: xs, YValues: ys}}
	if tr.Kind == figure.KindBar {
		// keep the zero baseline inside the axis
		return series, append(append([]float64(nil), ys...), 0)
	}
	return series, ys
}

func guideSeries(times []time.Time, g figure.Guide) chart.Series {
	return chart.TimeSeries{
		Style: chart.Style{
			StrokeColor:     toDrawing(g.Color),
			StrokeWidth:     1,
			StrokeDashArray: []float64{5, 5},
		},
		XValues: []time.Time{times[0], times[len(times)-1]},
		YValues: []float64{g.Value, g.Value},
	}
}

func defined(times []time.Time, s indicator.Series) ([]time.Time, []float64) {
	xs := make([]time.Time, 0, len(s))
	ys := make([]float64, 0, len(s))
	for i, p := range s {
		if !p.Valid || i >= len(times) || math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		xs = append(xs, times[i])
		ys = append(ys, p.Value)
	}
	return xs, ys
}

// yRange returns a padded [min, max] over values. go-chart cannot draw a
// zero-height range, so a flat series is widened around its value.
func yRange(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, 1
	}
	if hi == lo {
		pad := math.Abs(lo) * rangePadding
		if pad == 0 {
			pad = 1
		}
		return lo - pad, hi + pad
	}
	pad := (hi - lo) * rangePadding
	return lo - pad, hi + pad
}

// panelHeights splits the chart height by panel weight, never going below MinPanelHeight.
func panelHeights(c *figure.Chart) []int {
	total := c.Height
	if total <= 0 {
		total = figure.DefaultHeight
	}
	domains := c.Domains()
	out := make([]int, len(domains))
	for i, d := range domains {
		h := int(math.Round((d.Top - d.Bottom) * float64(total)))
		if h < MinPanelHeight {
			h = MinPanelHeight
		}
		out[i] = h
	}
	return out
}

func toDrawing(c figure.Color) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
