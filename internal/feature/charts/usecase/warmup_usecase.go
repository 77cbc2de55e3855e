package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"stock_chart/internal/feature/charts/domain/entity"
	"stock_chart/internal/shared/ratelimiter"
)

// SymbolLister supplies the tickers to pre-fetch.
type SymbolLister interface {
	ListActiveCodes(ctx context.Context) ([]string, error)
}

// WarmupResult counts the fetches made by one warm-up run.
type WarmupResult struct {
	Fetched int
	Failed  int
}

// WarmupUsecase はウォッチリストの全銘柄を全期間プリセットで（キャッシュ付き）リポジトリから先読みし、
// 利用者の最初のリクエストがキャッシュヒットになるようにします。
type WarmupUsecase struct {
	market      MarketRepository
	symbols     SymbolLister
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewWarmupUsecase は新しい WarmupUsecase を作成します。
func NewWarmupUsecase(market MarketRepository, symbols SymbolLister, rateLimiter ratelimiter.RateLimiterInterface) *WarmupUsecase {
	return &WarmupUsecase{market: market, symbols: symbols, rateLimiter: rateLimiter}
}

// WarmAll は銘柄 × プリセットの組を順に取得し、レートリミッタで呼び出し間隔を調整します。
// 1つの組でエラーが発生してもログに出力して次へ進み、銘柄一覧の取得失敗か ctx の終了でのみ中断します。
func (wu *WarmupUsecase) WarmAll(ctx context.Context) (WarmupResult, error) {
	var res WarmupResult

	codes, err := wu.symbols.ListActiveCodes(ctx)
	if err != nil {
		return res, fmt.Errorf("list watchlist symbols: %w", err)
	}

	for _, code := range codes {
		symbol, err := NormalizeSymbol(code)
		if err != nil {
			slog.Warn("skipping invalid watchlist symbol", "symbol", code, "error", err)
			res.Failed++
			continue
		}
		for _, p := range entity.Periods {
			preset := entity.MustPreset(p)
			if err := wu.rateLimiter.Wait(ctx); err != nil {
				return res, err
			}
			if _, err := wu.market.GetTimeSeries(ctx, symbol, preset.Interval, preset.Lookback); err != nil {
				slog.Error("failed to warm chart data", "symbol", symbol, "period", p, "error", err)
				res.Failed++
				continue
			}
			res.Fetched++
		}
	}

	slog.Info("cache warm-up finished", "symbols", len(codes), "fetched", res.Fetched, "failed", res.Failed)
	return res, nil
}
