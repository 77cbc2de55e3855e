// Package handler provides the HTTP handlers of the charts feature.
package handler

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_chart/internal/feature/charts/domain"
	"stock_chart/internal/feature/charts/domain/figure"
	"stock_chart/internal/feature/charts/transport/http/dto"
	"stock_chart/internal/feature/charts/usecase"
)

//go:embed index.html
var indexPage []byte

// ChartUsecase builds one chart report per request.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type ChartUsecase interface {
	BuildChart(ctx context.Context, req usecase.ChartRequest) (*usecase.Report, error)
}

// ImageRenderer draws a composed chart as an image.
type ImageRenderer interface {
	Render(w io.Writer, c *figure.Chart) error
	ContentType() string
}

// ChartHandler はダッシュボード画面とチャートAPIのHTTPリクエストを処理します。
type ChartHandler struct {
	uc       ChartUsecase
	renderer ImageRenderer
}

// NewChartHandler は新しい ChartHandler を作成します。
// renderer が nil の場合、画像エンドポイントは 501 を返します。
func NewChartHandler(uc ChartUsecase, renderer ImageRenderer) *ChartHandler {
	return &ChartHandler{uc: uc, renderer: renderer}
}

// Index serves the dashboard page. The page renders figures client-side.
func (h *ChartHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
}

// GetChart は指定銘柄のPlotly figureとサマリーをJSONで返します。
//
// Example:
// GET /api/charts/AAPL?period=weekly&indicators=MACD,RSI
func (h *ChartHandler) GetChart(c *gin.Context) {
	report, ok := h.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewChartResponse(report))
}

// GetChartPNG renders the same chart as GetChart to an image.
func (h *ChartHandler) GetChartPNG(c *gin.Context) {
	if h.renderer == nil {
		c.JSON(http.StatusNotImplemented, dto.ErrorResponse{Error: "image rendering is disabled"})
		return
	}
	report, ok := h.build(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, report.Chart); err != nil {
		slog.Error("chart render failed", "symbol", report.Symbol, "error", err)
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "not enough data to draw the chart"})
		return
	}
	c.Data(http.StatusOK, h.renderer.ContentType(), buf.Bytes())
}

// build parses the request and runs the usecase. On failure it writes the
// error response and reports false.
func (h *ChartHandler) build(c *gin.Context) (*usecase.Report, bool) {
	var q dto.ChartQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request: period must be daily, weekly or monthly"})
		return nil, false
	}

	report, err := h.uc.BuildChart(c.Request.Context(), usecase.ChartRequest{
		Symbol:     c.Param("symbol"),
		Period:     q.Period,
		Indicators: q.Indicators,
	})
	if err != nil {
		status, msg := errorResponse(err)
		c.JSON(status, dto.ErrorResponse{Error: msg})
		return nil, false
	}
	return report, true
}

// errorResponse はユースケースのエラーをHTTPステータスとユーザー向けメッセージに変換します。
func errorResponse(err error) (int, string) {
	var fe *domain.FetchError
	switch {
	case errors.As(err, &fe):
		switch {
		case errors.Is(fe, domain.ErrInvalidSymbol):
			return http.StatusBadRequest, fe.Message()
		case errors.Is(fe, domain.ErrSymbolNotFound), errors.Is(fe, domain.ErrNoData):
			return http.StatusNotFound, fe.Message()
		}
		return http.StatusBadGateway, fe.Message()
	case errors.Is(err, domain.ErrInvalidSymbol), errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	default:
		slog.Error("unexpected chart error", "error", err)
		return http.StatusInternalServerError, "An error occurred: " + err.Error()
	}
}
