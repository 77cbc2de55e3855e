// Package metrics exposes Prometheus instrumentation for the chart service.
package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"stock_chart/internal/feature/charts/domain"
	"stock_chart/internal/feature/charts/domain/entity"
	"stock_chart/internal/feature/charts/domain/indicator"
	"stock_chart/internal/feature/charts/usecase"
)

const namespace = "stockchart"

// Metrics holds all Prometheus collectors of the service.
type Metrics struct {
	ProviderRequests *prometheus.CounterVec   // labels: provider, outcome
	ProviderLatency  *prometheus.HistogramVec // labels: provider
	CacheLookups     *prometheus.CounterVec   // labels: namespace, result
	IndicatorDur     prometheus.Histogram
	HTTPRequests     *prometheus.CounterVec   // labels: method, route, status
	HTTPLatency      *prometheus.HistogramVec // labels: method, route
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Market data provider calls by outcome",
		}, []string{"provider", "outcome"}),
		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Market data provider call latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Chart data cache lookups by result",
		}, []string{"namespace", "result"}),
		IndicatorDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "indicator_compute_duration_seconds",
			Help:      "Indicator bundle compute latency per request",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.ProviderRequests,
		m.ProviderLatency,
		m.CacheLookups,
		m.IndicatorDur,
		m.HTTPRequests,
		m.HTTPLatency,
	)
	return m
}

// RecordCacheResult counts one cache lookup.
func (m *Metrics) RecordCacheResult(ns string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(ns, result).Inc()
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// InstrumentEngine wraps an indicator engine with a compute-duration histogram.
func (m *Metrics) InstrumentEngine(e usecase.Engine) usecase.Engine {
	return func(candles []entity.Candle, requested ...indicator.Name) indicator.Bundle {
		start := time.Now()
		defer func() { m.IndicatorDur.Observe(time.Since(start).Seconds()) }()
		return e(candles, requested...)
	}
}

// InstrumentedMarket decorates a MarketRepository with call counters and latency.
type InstrumentedMarket struct {
	inner    usecase.MarketRepository
	provider string
	m        *Metrics
}

// Compile-time check that InstrumentedMarket implements MarketRepository.
var _ usecase.MarketRepository = (*InstrumentedMarket)(nil)

// InstrumentMarket wraps inner, labelling its metrics with provider.
func (m *Metrics) InstrumentMarket(provider string, inner usecase.MarketRepository) *InstrumentedMarket {
	return &InstrumentedMarket{inner: inner, provider: provider, m: m}
}

// GetTimeSeries forwards to the wrapped repository and records the outcome.
func (im *InstrumentedMarket) GetTimeSeries(ctx context.Context, symbol string, interval entity.Interval, lookback entity.Lookback) ([]entity.Candle, error) {
	start := time.Now()
	out, err := im.inner.GetTimeSeries(ctx, symbol, interval, lookback)
	im.m.ProviderLatency.WithLabelValues(im.provider).Observe(time.Since(start).Seconds())
	im.m.ProviderRequests.WithLabelValues(im.provider, outcome(out, err)).Inc()
	return out, err
}

func outcome(out []entity.Candle, err error) string {
	switch {
	case err == nil && len(out) == 0:
		return "empty"
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrSymbolNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrProviderUnavailable):
		return "unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
