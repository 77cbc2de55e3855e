// Package scheduler runs the periodic cache warm-up.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"stock_chart/internal/feature/charts/usecase"
)

// Warmer pre-fetches chart data. usecase.WarmupUsecase implements it.
type Warmer interface {
	WarmAll(ctx context.Context) (usecase.WarmupResult, error)
}

// Scheduler triggers warm-ups on a cron schedule. A run that is still in
// progress when the next tick fires causes that tick to be skipped.
type Scheduler struct {
	cron    *cron.Cron
	warmer  Warmer
	ctx     context.Context
	timeout time.Duration
}

// New registers warmer on schedule, a standard five-field cron expression.
// Each run is bounded by timeout and by ctx.
func New(ctx context.Context, schedule string, warmer Warmer, timeout time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
		warmer:  warmer,
		ctx:     ctx,
		timeout: timeout,
	}
	if _, err := s.cron.AddFunc(schedule, s.RunNow); err != nil {
		return nil, fmt.Errorf("register warm-up task %q: %w", schedule, err)
	}
	return s, nil
}

// Start starts the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("warm-up scheduler started", "entries", len(s.cron.Entries()))
}

// Stop stops scheduling and waits for a running warm-up to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("warm-up scheduler stopped")
}

// RunNow performs one warm-up synchronously.
func (s *Scheduler) RunNow() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	res, err := s.warmer.WarmAll(ctx)
	if err != nil {
		slog.Error("scheduled warm-up failed", "error", err, "fetched", res.Fetched, "failed", res.Failed)
		return
	}
	slog.Info("scheduled warm-up done", "fetched", res.Fetched, "failed", res.Failed, "took", time.Since(start))
}
