package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"stock_chart/internal/feature/charts/domain/entity"
)

var threeMonths = entity.Lookback{Months: 3}

// mockMarketRepository is a MarketRepository test double.
type mockMarketRepository struct {
	getFn func(ctx context.Context, symbol string, interval entity.Interval, lookback entity.Lookback) ([]entity.Candle, error)
	calls atomic.Int32
}

func (m *mockMarketRepository) GetTimeSeries(ctx context.Context, symbol string, interval entity.Interval, lookback entity.Lookback) ([]entity.Candle, error) {
	m.calls.Add(1)
	if m.getFn != nil {
		return m.getFn(ctx, symbol, interval, lookback)
	}
	return nil, nil
}

type recordedResult struct {
	namespace string
	hit       bool
}

// fakeRecorder collects cache results.
type fakeRecorder struct {
	mu      sync.Mutex
	results []recordedResult
}

func (f *fakeRecorder) RecordCacheResult(namespace string, hit bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, recordedResult{namespace, hit})
}

func sampleCandles() []entity.Candle {
	return []entity.Candle{
		{Symbol: "AAPL", Interval: entity.Interval1Day, Time: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Open: 150, High: 156, Low: 149, Close: 155, Volume: 100},
	}
}

func TestNewCachingMarketRepository_Defaults(t *testing.T) {
	t.Parallel()

	repo := NewCachingMarketRepository(nil, 0, &mockMarketRepository{}, "")
	if repo.namespace != "charts" {
		t.Errorf("expected namespace %q, got %q", "charts", repo.namespace)
	}
	if ttl := repo.ttl(); ttl <= 0 || ttl > 25*time.Hour {
		t.Errorf("expected refresh-based TTL within a day, got %v", ttl)
	}

	custom := NewCachingMarketRepository(nil, 10*time.Minute, &mockMarketRepository{}, "custom")
	if custom.ttl() != 10*time.Minute || custom.namespace != "custom" {
		t.Errorf("custom values not preserved: %v %q", custom.ttl(), custom.namespace)
	}
}

func TestCachingMarketRepository_CacheKey(t *testing.T) {
	t.Parallel()

	repo := NewCachingMarketRepository(nil, time.Minute, &mockMarketRepository{}, "charts")
	got := repo.cacheKey("BRK B", entity.Interval1Month, entity.Lookback{Years: 10})
	if got != "charts:BRK_B:1month:10y" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestCachingMarketRepository_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockMarketRepository{getFn: func(context.Context, string, entity.Interval, entity.Lookback) ([]entity.Candle, error) {
		return sampleCandles(), nil
	}}
	repo := NewCachingMarketRepository(nil, 5*time.Minute, inner, "charts")

	candles, err := repo.GetTimeSeries(context.Background(), "AAPL", entity.Interval1Day, threeMonths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 1 || inner.calls.Load() != 1 {
		t.Errorf("expected inner call passthrough, got %d candles and %d calls", len(candles), inner.calls.Load())
	}
	if err := repo.Invalidate(context.Background(), "AAPL"); err != nil {
		t.Errorf("invalidate without redis should be a no-op, got %v", err)
	}
}

func TestCachingMarketRepository_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cachedJSON, _ := json.Marshal(sampleCandles())
	mock.ExpectGet("charts:AAPL:1day:3mo").SetVal(string(cachedJSON))

	inner := &mockMarketRepository{}
	rec := &fakeRecorder{}
	repo := NewCachingMarketRepository(rdb, 5*time.Minute, inner, "charts", WithRecorder(rec))

	candles, err := repo.GetTimeSeries(context.Background(), "AAPL", entity.Interval1Day, threeMonths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls.Load() != 0 {
		t.Error("provider should not be called on cache hit")
	}
	if len(candles) != 1 || !candles[0].Time.Equal(sampleCandles()[0].Time) {
		t.Errorf("unexpected candles %+v", candles)
	}
	if len(rec.results) != 1 || !rec.results[0].hit || rec.results[0].namespace != "charts" {
		t.Errorf("expected one recorded hit, got %+v", rec.results)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

func TestCachingMarketRepository_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(sampleCandles())
	mock.ExpectGet("charts:AAPL:1week:9mo").RedisNil()
	mock.ExpectSet("charts:AAPL:1week:9mo", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockMarketRepository{getFn: func(context.Context, string, entity.Interval, entity.Lookback) ([]entity.Candle, error) {
		return sampleCandles(), nil
	}}
	rec := &fakeRecorder{}
	repo := NewCachingMarketRepository(rdb, 5*time.Minute, inner, "charts", WithRecorder(rec))

	candles, err := repo.GetTimeSeries(context.Background(), "AAPL", entity.Interval1Week, entity.Lookback{Months: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 1 {
		t.Errorf("expected 1 candle, got %d", len(candles))
	}
	if len(rec.results) != 1 || rec.results[0].hit {
		t.Errorf("expected one recorded miss, got %+v", rec.results)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

func TestCachingMarketRepository_EmptyResultNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("charts:NEWCO:1day:3mo").RedisNil()

	inner := &mockMarketRepository{getFn: func(context.Context, string, entity.Interval, entity.Lookback) ([]entity.Candle, error) {
		return []entity.Candle{}, nil
	}}
	repo := NewCachingMarketRepository(rdb, 5*time.Minute, inner, "charts")

	candles, err := repo.GetTimeSeries(context.Background(), "NEWCO", entity.Interval1Day, threeMonths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 0 {
		t.Errorf("expected empty result, got %d", len(candles))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected redis traffic: %v", err)
	}
}

func TestCachingMarketRepository_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("provider error")
	mock.ExpectGet("charts:AAPL:1day:3mo").RedisNil()

	inner := &mockMarketRepository{getFn: func(context.Context, string, entity.Interval, entity.Lookback) ([]entity.Candle, error) {
		return nil, expectedErr
	}}
	repo := NewCachingMarketRepository(rdb, 5*time.Minute, inner, "charts")

	_, err := repo.GetTimeSeries(context.Background(), "AAPL", entity.Interval1Day, threeMonths)
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestCachingMarketRepository_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(sampleCandles())
	mock.ExpectGet("charts:AAPL:1day:3mo").SetVal("invalid json")
	mock.ExpectDel("charts:AAPL:1day:3mo").SetVal(1)
	mock.ExpectSet("charts:AAPL:1day:3mo", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockMarketRepository{getFn: func(context.Context, string, entity.Interval, entity.Lookback) ([]entity.Candle, error) {
		return sampleCandles(), nil
	}}
	repo := NewCachingMarketRepository(rdb, 5*time.Minute, inner, "charts")

	candles, err := repo.GetTimeSeries(context.Background(), "AAPL", entity.Interval1Day, threeMonths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 1 {
		t.Errorf("expected 1 candle, got %d", len(candles))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

func TestCachingMarketRepository_CollapsesConcurrentMisses(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	inner := &mockMarketRepository{getFn: func(context.Context, string, entity.Interval, entity.Lookback) ([]entity.Candle, error) {
		<-release
		return sampleCandles(), nil
	}}
	repo := NewCachingMarketRepository(nil, time.Minute, inner, "charts")

	const callers = 5
	var wg sync.WaitGroup
	results := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cs, err := repo.GetTimeSeries(context.Background(), "AAPL", entity.Interval1Day, threeMonths)
			if err == nil {
				results[i] = len(cs)
			}
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := inner.calls.Load(); got != 1 {
		t.Errorf("expected one provider call, got %d", got)
	}
	for i, n := range results {
		if n != 1 {
			t.Errorf("caller %d got %d candles", i, n)
		}
	}
}

func TestCachingMarketRepository_CancelledCallerDoesNotFailOthers(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	inner := &mockMarketRepository{getFn: func(ctx context.Context, _ string, _ entity.Interval, _ entity.Lookback) ([]entity.Candle, error) {
		close(started)
		select {
		case <-release:
			return sampleCandles(), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}}
	repo := NewCachingMarketRepository(nil, time.Minute, inner, "charts")

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := repo.GetTimeSeries(firstCtx, "AAPL", entity.Interval1Day, threeMonths)
		firstErr <- err
	}()
	<-started

	type result struct {
		candles []entity.Candle
		err     error
	}
	second := make(chan result, 1)
	go func() {
		cs, err := repo.GetTimeSeries(context.Background(), "AAPL", entity.Interval1Day, threeMonths)
		second <- result{cs, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller: expected context.Canceled, got %v", err)
	}

	close(release)
	got := <-second
	if got.err != nil {
		t.Fatalf("live caller: unexpected error %v", got.err)
	}
	if len(got.candles) != 1 {
		t.Errorf("live caller: expected 1 candle, got %d", len(got.candles))
	}
	if n := inner.calls.Load(); n != 1 {
		t.Errorf("expected one provider call, got %d", n)
	}
}

func TestCachingMarketRepository_FetchTimeout(t *testing.T) {
	t.Parallel()

	inner := &mockMarketRepository{getFn: func(ctx context.Context, _ string, _ entity.Interval, _ entity.Lookback) ([]entity.Candle, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	repo := NewCachingMarketRepository(nil, time.Minute, inner, "charts", WithFetchTimeout(20*time.Millisecond))

	_, err := repo.GetTimeSeries(context.Background(), "AAPL", entity.Interval1Day, threeMonths)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestCachingMarketRepository_Invalidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		symbol  string
		pattern string
	}{
		{name: "one symbol", symbol: "AAPL", pattern: "charts:AAPL:*"},
		{name: "everything", symbol: "", pattern: "charts:*"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rdb, mock := redismock.NewClientMock()
			defer func() { _ = rdb.Close() }()

			mock.ExpectScan(0, tt.pattern, 200).SetVal([]string{"charts:AAPL:1day:3mo", "charts:AAPL:1week:9mo"}, 7)
			mock.ExpectDel("charts:AAPL:1day:3mo", "charts:AAPL:1week:9mo").SetVal(2)
			mock.ExpectScan(7, tt.pattern, 200).SetVal([]string{}, 0)

			repo := NewCachingMarketRepository(rdb, time.Minute, &mockMarketRepository{}, "charts")
			if err := repo.Invalidate(context.Background(), tt.symbol); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled mock expectations: %v", err)
			}
		})
	}
}

func TestCachingMarketRepository_InvalidateScanError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "charts:*", 200).SetErr(errors.New("scan failed"))

	repo := NewCachingMarketRepository(rdb, time.Minute, &mockMarketRepository{}, "charts")
	if err := repo.Invalidate(context.Background(), ""); err == nil {
		t.Fatal("expected error, got nil")
	}
}
