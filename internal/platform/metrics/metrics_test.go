package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_chart/internal/feature/charts/domain"
	"stock_chart/internal/feature/charts/domain/entity"
	"stock_chart/internal/feature/charts/domain/indicator"
)

type stubMarket struct {
	out []entity.Candle
	err error
}

func (s stubMarket) GetTimeSeries(context.Context, string, entity.Interval, entity.Lookback) ([]entity.Candle, error) {
	return s.out, s.err
}

func TestNewMetrics_RegistersCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.RecordCacheResult("charts", true)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	assert.Panics(t, func() { NewMetrics(reg) }, "double registration must fail loudly")
}

func TestMetrics_RecordCacheResult(t *testing.T) {
	t.Parallel()

	m := NewMetrics(prometheus.NewRegistry())
	m.RecordCacheResult("charts", true)
	m.RecordCacheResult("charts", false)
	m.RecordCacheResult("charts", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("charts", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("charts", "miss")))
}

func TestInstrumentedMarket_Outcomes(t *testing.T) {
	t.Parallel()

	bar := entity.Candle{Time: time.Now(), Open: 1, High: 1, Low: 1, Close: 1}
	tests := []struct {
		name    string
		market  stubMarket
		outcome string
	}{
		{"ok", stubMarket{out: []entity.Candle{bar}}, "ok"},
		{"empty", stubMarket{out: []entity.Candle{}}, "empty"},
		{"not found", stubMarket{err: fmt.Errorf("x: %w", domain.ErrSymbolNotFound)}, "not_found"},
		{"unavailable", stubMarket{err: domain.ErrProviderUnavailable}, "unavailable"},
		{"canceled", stubMarket{err: context.Canceled}, "canceled"},
		{"other", stubMarket{err: errors.New("boom")}, "error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewMetrics(prometheus.NewRegistry())
			im := m.InstrumentMarket("yahoo", tt.market)

			_, err := im.GetTimeSeries(context.Background(), "AAPL", entity.Interval1Day, entity.Lookback{Months: 3})

			assert.Equal(t, tt.market.err, err)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("yahoo", tt.outcome)))
			assert.Equal(t, 1, testutil.CollectAndCount(m.ProviderLatency))
		})
	}
}

func TestMetrics_InstrumentEngine(t *testing.T) {
	t.Parallel()

	m := NewMetrics(prometheus.NewRegistry())
	calls := 0
	engine := m.InstrumentEngine(func(cs []entity.Candle, names ...indicator.Name) indicator.Bundle {
		calls++
		return indicator.Compute(cs, names...)
	})

	b := engine(nil, indicator.RSI)

	assert.Equal(t, 1, calls)
	assert.Contains(t, b, indicator.RSI)
	assert.Equal(t, 1, testutil.CollectAndCount(m.IndicatorDur))
}

func TestMetrics_Middleware(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	m := NewMetrics(prometheus.NewRegistry())
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/charts/:symbol", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/api/charts/AAPL", "/api/charts/MSFT", "/nope"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/charts/:symbol", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}
