// Package ratelimiter throttles outbound provider calls to a fixed budget per window.
package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateLimiterInterface は、プロバイダ呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	// Wait は呼び出し枠が空くか ctx が終了するまでブロックします。
	Wait(ctx context.Context) error
}

// RateLimiterは、interval あたり最大 limit 回の呼び出しを許可します。
// ウィンドウ開始から interval が経過するとカウントをリセットします。
type RateLimiter struct {
	mu        sync.Mutex
	limit     int
	interval  time.Duration
	count     int
	lastReset time.Time
	now       func() time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// Waitは枠を1つ確保し、上限に達していれば次のウィンドウまで待機します。
// 先に ctx が終了した場合は ctx.Err() を返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		sleep := rl.reserve()
		if sleep <= 0 {
			return nil
		}
		slog.Info("rate limit reached, waiting", "limit", rl.limit, "sleep", sleep)

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve takes a slot and returns zero, or returns how long to wait for the next window.
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}
	if rl.count < rl.limit {
		rl.count++
		return 0
	}
	return rl.interval - now.Sub(rl.lastReset)
}

// NoopLimiter never waits. It is used when no provider quota applies.
type NoopLimiter struct{}

// Wait returns immediately unless ctx is already done.
func (NoopLimiter) Wait(ctx context.Context) error { return ctx.Err() }
