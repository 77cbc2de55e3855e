// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"stock_chart/internal/feature/charts/domain/entity"
	"stock_chart/internal/feature/charts/usecase"
)

// Recorder observes cache lookups. platform/metrics implements it.
type Recorder interface {
	RecordCacheResult(namespace string, hit bool)
}

// CachingMarketRepository decorates a MarketRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying provider. Concurrent misses for the same key
// share one provider call.
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	rdb       *redis.Client
	ttl       func() time.Duration
	namespace string
	group     singleflight.Group
	recorder  Recorder

	fetchTimeout time.Duration
}

// Compile-time check that CachingMarketRepository implements MarketRepository.
var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// DefaultFetchTimeout bounds one shared provider call.
const DefaultFetchTimeout = 30 * time.Second

// Option configures a CachingMarketRepository.
type Option func(*CachingMarketRepository)

// WithRecorder reports hits and misses to r.
func WithRecorder(r Recorder) Option {
	return func(c *CachingMarketRepository) { c.recorder = r }
}

// WithFetchTimeout overrides DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *CachingMarketRepository) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// NewCachingMarketRepository decorates a MarketRepository with Redis caching.
// If ttl is 0, entries live until the next daily refresh (see TimeUntilNextRefresh).
// If namespace is empty, it uses "charts".
func NewCachingMarketRepository(rdb *redis.Client, ttl time.Duration, inner usecase.MarketRepository, namespace string, opts ...Option) *CachingMarketRepository {
	if namespace == "" {
		namespace = "charts"
	}
	c := &CachingMarketRepository{
		inner:        inner,
		rdb:          rdb,
		namespace:    namespace,
		fetchTimeout: DefaultFetchTimeout,
	}
	if ttl > 0 {
		c.ttl = func() time.Duration { return ttl }
	} else {
		c.ttl = func() time.Duration { return TimeUntilNextRefresh(time.Now()) }
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetTimeSeries returns cached bars when present, otherwise fetches from
// the inner repository and caches non-empty results.
func (c *CachingMarketRepository) GetTimeSeries(ctx context.Context, symbol string, interval entity.Interval, lookback entity.Lookback) ([]entity.Candle, error) {
	key := c.cacheKey(symbol, interval, lookback)

	// 1) Check cache
	if c.rdb != nil {
		if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
			var out []entity.Candle
			if err := json.Unmarshal(b, &out); err == nil {
				c.record(true)
				return out, nil
			}
			// Delete corrupted cache entry
			_ = c.rdb.Del(ctx, key).Err()
		}
	}
	c.record(false)

	// 2) Fall back to the provider, one call per key at a time. The shared
	// call outlives any single caller; each caller stops waiting on its own ctx.
	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		out, err := c.inner.GetTimeSeries(fetchCtx, symbol, interval, lookback)
		if err != nil {
			return nil, err
		}
		c.store(fetchCtx, key, out)
		return out, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			slog.Debug("shared provider call", "key", key)
		}
		return res.Val.([]entity.Candle), nil
	}
}

// store writes out to Redis. Failures are logged and ignored.
func (c *CachingMarketRepository) store(ctx context.Context, key string, out []entity.Candle) {
	// an empty answer may be a transient provider gap; do not pin it
	if c.rdb == nil || len(out) == 0 {
		return
	}
	b, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl()).Err(); err != nil {
		slog.Warn("failed to write chart cache", "key", key, "error", err)
	}
}

// Invalidate removes cached series for symbol, or every cached series when symbol is empty.
func (c *CachingMarketRepository) Invalidate(ctx context.Context, symbol string) error {
	if c.rdb == nil {
		return nil
	}
	pattern := c.namespace + ":*"
	if symbol != "" {
		pattern = fmt.Sprintf("%s:%s:*", c.namespace, safe(symbol))
	}
	return c.deleteByPattern(ctx, pattern)
}

func (c *CachingMarketRepository) record(hit bool) {
	if c.recorder != nil {
		c.recorder.RecordCacheResult(c.namespace, hit)
	}
}

// cacheKey generates a cache key such as "charts:AAPL:1day:3mo".
func (c *CachingMarketRepository) cacheKey(symbol string, interval entity.Interval, lookback entity.Lookback) string {
	return fmt.Sprintf("%s:%s:%s:%s",
		c.namespace,
		safe(symbol),
		safe(string(interval)),
		lookback.String(),
	)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingMarketRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
