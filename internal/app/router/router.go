// Package router wires the HTTP handlers into a gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	charthandler "stock_chart/internal/feature/charts/transport/handler"
	symbollisthandler "stock_chart/internal/feature/symbollist/transport/handler"
	"stock_chart/internal/platform/http/handler"
	"stock_chart/internal/platform/metrics"
)

// NewRouter builds the engine. m and gatherer may be nil, which disables
// request instrumentation and the /metrics endpoint.
func NewRouter(charts *charthandler.ChartHandler, symbols *symbollisthandler.SymbolHandler,
	m *metrics.Metrics, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.Default()
	if m != nil {
		r.Use(m.Middleware())
	}

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// ダッシュボード（認証不要）
	r.GET("/", charts.Index)

	// JSON / PNG API
	api := r.Group("/api")
	{
		api.GET("/charts/:symbol", charts.GetChart)
		api.GET("/charts/:symbol/png", charts.GetChartPNG)
		api.GET("/symbols", symbols.List)
	}

	return r
}
