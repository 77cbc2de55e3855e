package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"stock_chart/internal/feature/charts/domain"
	"stock_chart/internal/feature/charts/domain/entity"
	"stock_chart/internal/feature/charts/usecase"
	"stock_chart/internal/platform/externalapi/yahoo/dto"
)

// intervals maps domain intervals to Yahoo interval codes.
var intervals = map[entity.Interval]string{
	entity.Interval1Day:   "1d",
	entity.Interval1Week:  "1wk",
	entity.Interval1Month: "1mo",
}

// YahooMarket is a MarketRepository backed by the Yahoo Finance chart API.
type YahooMarket struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
}

// Compile-time check that YahooMarket implements MarketRepository.
var _ usecase.MarketRepository = (*YahooMarket)(nil)

// NewYahooMarket creates a YahooMarket with the given config and HTTP client.
func NewYahooMarket(cfg Config, client *http.Client) *YahooMarket {
	return &YahooMarket{cfg: cfg, client: client, now: time.Now}
}

// GetTimeSeries fetches bars between now-lookback and now. Bars whose
// prices are null are skipped and the result is normalized to ascending order.
func (y *YahooMarket) GetTimeSeries(ctx context.Context, symbol string, interval entity.Interval, lookback entity.Lookback) ([]entity.Candle, error) {
	code, ok := intervals[interval]
	if !ok {
		return nil, fmt.Errorf("yahoo: unsupported interval %q", interval)
	}

	now := y.now()
	q := url.Values{}
	q.Set("interval", code)
	q.Set("period1", strconv.FormatInt(lookback.Since(now).Unix(), 10))
	q.Set("period2", strconv.FormatInt(now.Unix(), 10))
	q.Set("events", "history")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.cfg.BaseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", y.cfg.UserAgent)

	res, err := y.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("yahoo: %w: %v", domain.ErrProviderUnavailable, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("yahoo http %d: %w", res.StatusCode, domain.ErrProviderUnavailable)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	var body dto.ChartResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		if res.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("yahoo http %d", res.StatusCode)
		}
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if e := body.Chart.Error; e != nil {
		return nil, chartError(e)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("yahoo http %d", res.StatusCode)
	}
	if len(body.Chart.Result) == 0 {
		return []entity.Candle{}, nil
	}

	return toCandles(symbol, interval, body.Chart.Result[0]), nil
}

func chartError(e *dto.ChartError) error {
	if e.Code == "Not Found" {
		return fmt.Errorf("yahoo: %s: %w", e.Description, domain.ErrSymbolNotFound)
	}
	return errors.New("yahoo: " + e.Description)
}

func toCandles(symbol string, interval entity.Interval, r dto.ChartResult) []entity.Candle {
	if len(r.Indicators.Quote) == 0 {
		return []entity.Candle{}
	}
	q := r.Indicators.Quote[0]

	candles := make([]entity.Candle, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		o, okO := at(q.Open, i)
		h, okH := at(q.High, i)
		l, okL := at(q.Low, i)
		c, okC := at(q.Close, i)
		if !okO || !okH || !okL || !okC {
			continue // holidays and halted sessions come back as nulls
		}
		vol, _ := at(q.Volume, i)
		candles = append(candles, entity.Candle{
			Symbol:   symbol,
			Interval: interval,
			Time:     time.Unix(ts, 0).UTC(),
			Open:     o,
			High:     h,
			Low:      l,
			Close:    c,
			Volume:   int64(vol),
		})
	}
	return entity.Normalize(candles)
}

func at(vals []*float64, i int) (float64, bool) {
	if i >= len(vals) || vals[i] == nil {
		return 0, false
	}
	return *vals[i], true
}
