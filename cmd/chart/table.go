package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"stock_chart/internal/feature/charts/usecase"
	"stock_chart/internal/feature/symbollist/domain/entity"
)

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.SetTitle(title)
	return t
}

// renderSummary formats the last-bar readings of a report.
func renderSummary(r *usecase.Report) string {
	s := r.Summary
	t := newTable(fmt.Sprintf("%s  %s", r.Symbol, r.Preset.Label))
	t.AppendHeader(table.Row{"Indicator", "Value", "Reading"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})

	t.AppendRow(table.Row{"As of", s.AsOf.Format(time.DateOnly), fmt.Sprintf("%d bars", len(r.Candles))})
	change := "-"
	if s.HasChange {
		change = fmt.Sprintf("%+.2f (%+.2f%%)", s.Change, s.ChangePct)
	}
	t.AppendRow(table.Row{"Close", fmt.Sprintf("%.2f", s.LastClose), change})

	if s.RSI != nil {
		t.AppendRow(table.Row{"RSI(14)", fmt.Sprintf("%.2f", s.RSI.Value), s.RSI.Zone})
	}
	if s.WilliamsR != nil {
		t.AppendRow(table.Row{"Williams %R(14)", fmt.Sprintf("%.2f", s.WilliamsR.Value), s.WilliamsR.Zone})
	}
	if s.MACD != nil {
		t.AppendRow(table.Row{"MACD(12,26,9)", fmt.Sprintf("%.4f / %.4f", s.MACD.Line, s.MACD.Signal), s.MACD.Trend})
	}
	if s.Bollinger != nil {
		b := s.Bollinger
		t.AppendRow(table.Row{"Bollinger(20,2)", fmt.Sprintf("%.2f / %.2f / %.2f", b.Lower, b.Middle, b.Upper), b.Position})
	}
	return t.Render()
}

// renderWatchlist formats the active watchlist.
func renderWatchlist(symbols []entity.Symbol) string {
	t := newTable("Watchlist")
	t.AppendHeader(table.Row{"#", "Code", "Name", "Market"})
	for i, s := range symbols {
		t.AppendRow(table.Row{i + 1, s.Code, s.Name, s.Market})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(symbols)})
	return t.Render()
}
