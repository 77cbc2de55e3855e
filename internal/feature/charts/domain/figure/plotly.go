package figure

import (
	"encoding/json"
	"strconv"
	"time"

	"stock_chart/internal/feature/charts/domain/indicator"
)

// Figure is a Plotly.js figure ({data, layout}) that the browser renders as is.
type Figure struct {
	Data   []PlotlyTrace `json:"data"`
	Layout Layout        `json:"layout"`
}

// PlotlyTrace is one Plotly trace. Only the fields relevant to Type are set.
type PlotlyTrace struct {
	Type   string           `json:"type"`
	Name   string           `json:"name"`
	Mode   string           `json:"mode,omitempty"`
	X      []time.Time      `json:"x"`
	Y      indicator.Series `json:"y,omitempty"`
	Open   []float64        `json:"open,omitempty"`
	High   []float64        `json:"high,omitempty"`
	Low    []float64        `json:"low,omitempty"`
	Close  []float64        `json:"close,omitempty"`
	Line   *LineStyle       `json:"line,omitempty"`
	Marker *MarkerStyle     `json:"marker,omitempty"`
	XAxis  string           `json:"xaxis"`
	YAxis  string           `json:"yaxis"`
}

type LineStyle struct {
	Color string `json:"color,omitempty"`
	Dash  string `json:"dash,omitempty"`
}

type MarkerStyle struct {
	Color string `json:"color,omitempty"`
}

type Text struct {
	Text string `json:"text"`
}

type Legend struct {
	Orientation string  `json:"orientation"`
	YAnchor     string  `json:"yanchor"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"xanchor"`
	X           float64 `json:"x"`
}

type RangeSlider struct {
	Visible bool `json:"visible"`
}

// Axis is a Plotly x or y axis. Which fields apply depends on the direction.
type Axis struct {
	Domain         []float64    `json:"domain,omitempty"`
	Anchor         string       `json:"anchor,omitempty"`
	Matches        string       `json:"matches,omitempty"`
	Title          *Text        `json:"title,omitempty"`
	ShowTickLabels *bool        `json:"showticklabels,omitempty"`
	RangeSlider    *RangeSlider `json:"rangeslider,omitempty"`
}

// Shape is a layout shape; guides are full-width dashed lines.
type Shape struct {
	Type string    `json:"type"`
	XRef string    `json:"xref"`
	X0   float64   `json:"x0"`
	X1   float64   `json:"x1"`
	YRef string    `json:"yref"`
	Y0   float64   `json:"y0"`
	Y1   float64   `json:"y1"`
	Line LineStyle `json:"line"`
}

// Layout is the Plotly layout. Axes are keyed by their Plotly names
// ("xaxis", "yaxis2", ...) and flattened into the layout object on marshal.
type Layout struct {
	Title      Text            `json:"title"`
	Height     int             `json:"height"`
	ShowLegend bool            `json:"showlegend"`
	Legend     Legend          `json:"legend"`
	Shapes     []Shape         `json:"shapes,omitempty"`
	Axes       map[string]Axis `json:"-"`
}

// MarshalJSON flattens Axes next to the regular layout fields.
func (l Layout) MarshalJSON() ([]byte, error) {
	type plain Layout
	base, err := json.Marshal(plain(l))
	if err != nil {
		return nil, err
	}
	if len(l.Axes) == 0 {
		return base, nil
	}

	merged := make(map[string]json.RawMessage, len(l.Axes)+6)
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for name, ax := range l.Axes {
		raw, err := json.Marshal(ax)
		if err != nil {
			return nil, err
		}
		merged[name] = raw
	}
	return json.Marshal(merged)
}

// axisSuffix returns the Plotly axis suffix for the panel at row i ("" for the first).
func axisSuffix(i int) string {
	if i == 0 {
		return ""
	}
	return strconv.Itoa(i + 1)
}

// Plotly converts the chart into a Plotly figure with one subplot row per
// panel sharing a single time axis.
func (c *Chart) Plotly() Figure {
	fig := Figure{
		Data: []PlotlyTrace{},
		Layout: Layout{
			Title:      Text{Text: c.Title},
			Height:     c.Height,
			ShowLegend: true,
			Legend:     Legend{Orientation: "h", YAnchor: "bottom", Y: 1.02, XAnchor: "right", X: 1},
			Axes:       make(map[string]Axis, 2*len(c.Panels)),
		},
	}

	domains := c.Domains()
	last := len(c.Panels) - 1
	for i, p := range c.Panels {
		sfx := axisSuffix(i)
		xName, yName := "x"+sfx, "y"+sfx

		showTicks := i == last
		xa := Axis{Anchor: yName, ShowTickLabels: &showTicks, RangeSlider: &RangeSlider{Visible: false}}
		if i > 0 {
			xa.Matches = "x"
		}
		fig.Layout.Axes["xaxis"+sfx] = xa
		fig.Layout.Axes["yaxis"+sfx] = Axis{
			Domain: []float64{domains[i].Bottom, domains[i].Top},
			Anchor: xName,
			Title:  &Text{Text: p.Title},
		}

		for _, tr := range p.Traces {
			fig.Data = append(fig.Data, plotlyTrace(tr, c.Times, xName, yName))
		}
		for _, g := range p.Guides {
			fig.Layout.Shapes = append(fig.Layout.Shapes, Shape{
				Type: "line", XRef: "paper", X0: 0, X1: 1,
				YRef: yName, Y0: g.Value, Y1: g.Value,
				Line: LineStyle{Color: g.Color.CSS(), Dash: "dash"},
			})
		}
	}
	return fig
}

func plotlyTrace(tr Trace, times []time.Time, xName, yName string) PlotlyTrace {
	out := PlotlyTrace{Name: tr.Name, X: times, XAxis: xName, YAxis: yName}
	switch tr.Kind {
	case KindCandlestick:
		out.Type = "candlestick"
		if tr.OHLC != nil {
			out.Open, out.High, out.Low, out.Close = tr.OHLC.Open, tr.OHLC.High, tr.OHLC.Low, tr.OHLC.Close
		}
	case KindBar:
		out.Type = "bar"
		out.Y = tr.Values
		out.Marker = &MarkerStyle{Color: tr.Color.CSS()}
	default:
		out.Type = "scatter"
		out.Mode = "lines"
		out.Y = tr.Values
		out.Line = &LineStyle{Color: tr.Color.CSS()}
	}
	return out
}
