// Package usecase orchestrates one chart request: fetch, compute, compose, summarize.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"stock_chart/internal/feature/charts/domain"
	"stock_chart/internal/feature/charts/domain/entity"
	"stock_chart/internal/feature/charts/domain/figure"
	"stock_chart/internal/feature/charts/domain/indicator"
)

// MarketRepository fetches OHLCV bars from a market-data provider.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
// A known symbol with no bars in the window yields an empty slice and a nil error.
type MarketRepository interface {
	GetTimeSeries(ctx context.Context, symbol string, interval entity.Interval, lookback entity.Lookback) ([]entity.Candle, error)
}

// Engine computes an indicator bundle. indicator.Compute is the production engine.
type Engine func(candles []entity.Candle, requested ...indicator.Name) indicator.Bundle

// Composer lays out a chart. figure.Compose is the production composer.
type Composer func(symbol string, candles []entity.Candle, b indicator.Bundle) *figure.Chart

// symbolPattern accepts tickers such as AAPL, 7203.T, BRK-B and ^GSPC.
var symbolPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.\-=^]{0,14}$`)

// NormalizeSymbol upper-cases and validates a user-supplied ticker.
func NormalizeSymbol(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if !symbolPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSymbol, raw)
	}
	return s, nil
}

// ChartRequest is one user interaction: a ticker, a period preset and an
// optional comma-separated indicator list (empty selects all).
type ChartRequest struct {
	Symbol     string
	Period     string
	Indicators string
}

// Report is everything the presentation layer renders for one request.
type Report struct {
	Symbol     string
	Preset     entity.Preset
	Indicators []indicator.Name
	Candles    []entity.Candle
	Bundle     indicator.Bundle
	Chart      *figure.Chart
	Summary    Summary
}

// ChartUsecase builds charts from a market repository.
type ChartUsecase struct {
	market   MarketRepository
	engine   Engine
	composer Composer
}

// Option customizes a ChartUsecase.
type Option func(*ChartUsecase)

// WithEngine replaces the indicator engine.
func WithEngine(e Engine) Option { return func(u *ChartUsecase) { u.engine = e } }

// WithComposer replaces the chart composer.
func WithComposer(c Composer) Option { return func(u *ChartUsecase) { u.composer = c } }

// NewChartUsecase creates a ChartUsecase backed by market.
func NewChartUsecase(market MarketRepository, opts ...Option) *ChartUsecase {
	u := &ChartUsecase{market: market, engine: indicator.Compute, composer: figure.Compose}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// ParseRequest validates the request fields without touching the provider.
func ParseRequest(req ChartRequest) (string, entity.Preset, []indicator.Name, error) {
	symbol, err := NormalizeSymbol(req.Symbol)
	if err != nil {
		return "", entity.Preset{}, nil, err
	}
	period := req.Period
	if strings.TrimSpace(period) == "" {
		period = string(entity.PeriodDaily)
	}
	preset, err := entity.ParsePeriod(period)
	if err != nil {
		return "", entity.Preset{}, nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	names, err := indicator.ParseNames(req.Indicators)
	if err != nil {
		return "", entity.Preset{}, nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return symbol, preset, names, nil
}

// BuildChart fetches bars for the request, computes the indicators and
// composes the chart. A malformed ticker and any fetch failure, including an
// empty result, are returned as *domain.FetchError and the engine is not run.
func (u *ChartUsecase) BuildChart(ctx context.Context, req ChartRequest) (*Report, error) {
	symbol, preset, names, err := ParseRequest(req)
	if errors.Is(err, domain.ErrInvalidSymbol) {
		return nil, &domain.FetchError{Symbol: strings.TrimSpace(req.Symbol), Period: req.Period, Cause: err}
	}
	if err != nil {
		return nil, err
	}

	bars, err := u.market.GetTimeSeries(ctx, symbol, preset.Interval, preset.Lookback)
	if err != nil {
		slog.Warn("market data fetch failed", "symbol", symbol, "period", preset.Period, "error", err)
		return nil, &domain.FetchError{Symbol: symbol, Period: string(preset.Period), Cause: err}
	}
	bars = entity.Normalize(bars)
	if len(bars) == 0 {
		slog.Info("no market data", "symbol", symbol, "period", preset.Period)
		return nil, &domain.FetchError{Symbol: symbol, Period: string(preset.Period), Cause: domain.ErrNoData}
	}

	bundle := u.engine(bars, names...)
	chart := u.composer(symbol, bars, bundle)

	slog.Debug("chart built", "symbol", symbol, "period", preset.Period, "bars", len(bars), "indicators", len(names))
	return &Report{
		Symbol:     symbol,
		Preset:     preset,
		Indicators: names,
		Candles:    bars,
		Bundle:     bundle,
		Chart:      chart,
		Summary:    Summarize(bars, bundle),
	}, nil
}
