package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stock_chart/internal/app/di"
	"stock_chart/internal/feature/charts/adapters/pngchart"
	"stock_chart/internal/feature/charts/domain"
	"stock_chart/internal/feature/charts/usecase"
)

type showOptions struct {
	period     string
	indicators string
	pngPath    string
	width      int
}

func addShowFlags(cmd *cobra.Command, o *showOptions) {
	f := cmd.Flags()
	f.StringVarP(&o.period, "period", "p", "daily", "period preset (daily|weekly|monthly)")
	f.StringVarP(&o.indicators, "indicators", "i", "", "comma-separated indicators; empty selects all")
	f.StringVar(&o.pngPath, "png", "", "also write the chart as PNG to this path")
	f.IntVar(&o.width, "width", pngchart.DefaultWidth, "PNG width in pixels")
}

func (c *cli) show(cmd *cobra.Command, ticker string) error {
	ctx := cmd.Context()
	market, closeFn, err := c.market(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	uc := di.NewChartUsecase(market, nil)
	report, err := uc.BuildChart(ctx, usecase.ChartRequest{
		Symbol:     ticker,
		Period:     c.showOpts.period,
		Indicators: c.showOpts.indicators,
	})
	if err != nil {
		var fe *domain.FetchError
		if errors.As(err, &fe) {
			return errors.New(fe.Message())
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(report))

	if c.showOpts.pngPath != "" {
		if err := writePNG(c.showOpts.pngPath, c.showOpts.width, report); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "chart written to %s\n", c.showOpts.pngPath)
	}
	return nil
}

func writePNG(path string, width int, report *usecase.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := pngchart.NewRenderer(width).Render(f, report.Chart); err != nil {
		_ = f.Close()
		return fmt.Errorf("render chart: %w", err)
	}
	return f.Close()
}
