// Package dto defines the request and response bodies of the charts HTTP transport.
package dto

import (
	"time"

	"stock_chart/internal/feature/charts/domain/figure"
	"stock_chart/internal/feature/charts/usecase"
)

// ChartQuery is the query string of the chart endpoints.
type ChartQuery struct {
	Period     string `form:"period" binding:"omitempty,oneof=daily weekly monthly"`
	Indicators string `form:"indicators"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ChartResponse is the JSON chart payload rendered by the browser.
type ChartResponse struct {
	Symbol     string          `json:"symbol"`
	Period     string          `json:"period"`
	Interval   string          `json:"interval"`
	Lookback   string          `json:"lookback"`
	Label      string          `json:"label"`
	Indicators []string        `json:"indicators"`
	Bars       int             `json:"bars"`
	Figure     figure.Figure   `json:"figure"`
	Summary    SummaryResponse `json:"summary"`
}

type OscillatorResponse struct {
	Value float64 `json:"value"`
	Zone  string  `json:"zone"`
}

type MACDResponse struct {
	Line      float64 `json:"line"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
	Trend     string  `json:"trend"`
}

type BandResponse struct {
	Upper    float64 `json:"upper"`
	Middle   float64 `json:"middle"`
	Lower    float64 `json:"lower"`
	Position string  `json:"position"`
}

// SummaryResponse describes the last bar. Absent readings are omitted.
type SummaryResponse struct {
	AsOf      string              `json:"as_of"`
	LastClose float64             `json:"last_close"`
	Change    *float64            `json:"change,omitempty"`
	ChangePct *float64            `json:"change_pct,omitempty"`
	RSI       *OscillatorResponse `json:"rsi,omitempty"`
	WilliamsR *OscillatorResponse `json:"williams_r,omitempty"`
	MACD      *MACDResponse       `json:"macd,omitempty"`
	Bollinger *BandResponse       `json:"bollinger,omitempty"`
}

// NewChartResponse converts a usecase report into its wire form.
func NewChartResponse(r *usecase.Report) ChartResponse {
	names := make([]string, len(r.Indicators))
	for i, n := range r.Indicators {
		names[i] = string(n)
	}
	return ChartResponse{
		Symbol:     r.Symbol,
		Period:     string(r.Preset.Period),
		Interval:   string(r.Preset.Interval),
		Lookback:   r.Preset.Lookback.String(),
		Label:      r.Preset.Label,
		Indicators: names,
		Bars:       len(r.Candles),
		Figure:     r.Chart.Plotly(),
		Summary:    NewSummaryResponse(r.Summary),
	}
}

// NewSummaryResponse converts a usecase summary into its wire form.
func NewSummaryResponse(s usecase.Summary) SummaryResponse {
	out := SummaryResponse{AsOf: s.AsOf.UTC().Format(time.DateOnly), LastClose: s.LastClose}
	if s.HasChange {
		change, pct := s.Change, s.ChangePct
		out.Change, out.ChangePct = &change, &pct
	}
	if s.RSI != nil {
		out.RSI = &OscillatorResponse{Value: s.RSI.Value, Zone: string(s.RSI.Zone)}
	}
	if s.WilliamsR != nil {
		out.WilliamsR = &OscillatorResponse{Value: s.WilliamsR.Value, Zone: string(s.WilliamsR.Zone)}
	}
	if s.MACD != nil {
		out.MACD = &MACDResponse{Line: s.MACD.Line, Signal: s.MACD.Signal, Histogram: s.MACD.Histogram, Trend: string(s.MACD.Trend)}
	}
	if s.Bollinger != nil {
		out.Bollinger = &BandResponse{Upper: s.Bollinger.Upper, Middle: s.Bollinger.Middle, Lower: s.Bollinger.Lower, Position: string(s.Bollinger.Position)}
	}
	return out
}
