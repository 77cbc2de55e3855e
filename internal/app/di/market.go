// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_chart/internal/app/config"
	"stock_chart/internal/feature/charts/domain/indicator"
	"stock_chart/internal/feature/charts/usecase"
	"stock_chart/internal/platform/cache"
	"stock_chart/internal/platform/externalapi/twelvedata"
	"stock_chart/internal/platform/externalapi/yahoo"
	infrahttp "stock_chart/internal/platform/http"
	"stock_chart/internal/platform/metrics"
	"stock_chart/internal/shared/ratelimiter"
)

// NewMarket creates the configured provider with its HTTP client. When m is
// non-nil the provider is instrumented.
func NewMarket(provider string, m *metrics.Metrics) (usecase.MarketRepository, error) {
	var market usecase.MarketRepository
	switch provider {
	case config.ProviderYahoo:
		cfg := yahoo.LoadConfig()
		market = yahoo.NewYahooMarket(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
	case config.ProviderTwelveData:
		cfg := twelvedata.LoadConfig()
		market = twelvedata.NewTwelveDataMarket(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
	default:
		return nil, fmt.Errorf("unknown market provider %q", provider)
	}
	if m != nil {
		market = m.InstrumentMarket(provider, market)
	}
	return market, nil
}

// NewCachedMarket wraps market with the Redis cache. A nil rdb bypasses caching.
func NewCachedMarket(rdb *redis.Client, ttl time.Duration, market usecase.MarketRepository, m *metrics.Metrics) *cache.CachingMarketRepository {
	var opts []cache.Option
	if m != nil {
		opts = append(opts, cache.WithRecorder(m))
	}
	return cache.NewCachingMarketRepository(rdb, ttl, market, "charts", opts...)
}

// NewChartUsecase builds the chart usecase, timing the indicator engine when m is non-nil.
func NewChartUsecase(market usecase.MarketRepository, m *metrics.Metrics) *usecase.ChartUsecase {
	if m == nil {
		return usecase.NewChartUsecase(market)
	}
	return usecase.NewChartUsecase(market, usecase.WithEngine(m.InstrumentEngine(indicator.Compute)))
}

// NewWarmupLimiter paces warm-up fetches. perMinute <= 0 selects the
// provider's own quota: Twelve Data's plan limit, none for Yahoo.
func NewWarmupLimiter(provider string, perMinute int) ratelimiter.RateLimiterInterface {
	if perMinute <= 0 && provider == config.ProviderTwelveData {
		perMinute = twelvedata.LoadConfig().RateLimit
	}
	if perMinute <= 0 {
		return ratelimiter.NoopLimiter{}
	}
	return ratelimiter.NewRateLimiter(perMinute, time.Minute)
}
