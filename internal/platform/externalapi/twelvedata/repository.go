package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"stock_chart/internal/feature/charts/domain"
	"stock_chart/internal/feature/charts/domain/entity"
	"stock_chart/internal/feature/charts/usecase"
	"stock_chart/internal/platform/externalapi/twelvedata/dto"
)

// maxOutputSize is the largest page Twelve Data serves; ten years of
// monthly bars or three months of daily bars fit well inside it.
const maxOutputSize = 5000

// TwelveDataMarket はTwelve Data外部APIから株価データを取得するMarketRepository実装です。
type TwelveDataMarket struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
}

// TwelveDataMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
func NewTwelveDataMarket(cfg Config, client *http.Client) *TwelveDataMarket {
	return &TwelveDataMarket{cfg: cfg, client: client, now: time.Now}
}

// GetTimeSeries は現在から lookback 遡った期間の時系列株価データを取得し、
// 昇順の entity.Candle スライスとして返します。
func (t *TwelveDataMarket) GetTimeSeries(ctx context.Context, symbol string, interval entity.Interval, lookback entity.Lookback) ([]entity.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", string(interval))
	q.Set("start_date", lookback.Since(t.now()).Format("2006-01-02"))
	q.Set("outputsize", strconv.Itoa(maxOutputSize))
	q.Set("apikey", t.cfg.TwelveDataAPIKey)

	u := fmt.Sprintf("%s/time_series?%s", t.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := t.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("twelvedata: %w: %v", domain.ErrProviderUnavailable, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("twelvedata http %d: %w", res.StatusCode, domain.ErrProviderUnavailable)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("twelvedata decode: %w", err)
	}
	if body.Status == "error" {
		return nil, apiError(body.Code, body.Message)
	}

	candles := make([]entity.Candle, 0, len(body.Values))
	for _, v := range body.Values {
		c, err := toCandle(v)
		if err != nil {
			return nil, err
		}
		c.Symbol = symbol
		c.Interval = interval
		candles = append(candles, c)
	}
	// APIは新しい順に返すため反転
	return entity.Normalize(candles), nil
}

// apiError maps an API-level error code onto the domain errors.
func apiError(code int, msg string) error {
	switch {
	case code == http.StatusBadRequest || code == http.StatusNotFound:
		return fmt.Errorf("twelvedata: %s: %w", msg, domain.ErrSymbolNotFound)
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("twelvedata: %s: %w", msg, domain.ErrProviderUnavailable)
	default:
		return fmt.Errorf("twelvedata: %s", msg)
	}
}

func toCandle(v dto.TimeSeriesValue) (entity.Candle, error) {
	tm, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
	if err != nil {
		tm, err = time.Parse("2006-01-02", v.Datetime)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse time %q: %w", v.Datetime, err)
		}
	}
	o, err := strconv.ParseFloat(v.Open, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse open %q: %w", v.Open, err)
	}
	h, err := strconv.ParseFloat(v.High, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse high %q: %w", v.High, err)
	}
	l, err := strconv.ParseFloat(v.Low, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse low %q: %w", v.Low, err)
	}
	c, err := strconv.ParseFloat(v.Close, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse close %q: %w", v.Close, err)
	}
	// indices and FX pairs come without volume
	var vol int64
	if v.Volume != "" {
		vol, err = strconv.ParseInt(v.Volume, 10, 64)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}
	}
	return entity.Candle{Time: tm, Open: o, High: h, Low: l, Close: c, Volume: vol}, nil
}
