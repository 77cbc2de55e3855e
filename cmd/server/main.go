package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"

	"stock_chart/internal/app/config"
	"stock_chart/internal/app/di"
	"stock_chart/internal/app/router"
	"stock_chart/internal/app/scheduler"
	"stock_chart/internal/feature/charts/adapters/pngchart"
	charthandler "stock_chart/internal/feature/charts/transport/handler"
	chartusecase "stock_chart/internal/feature/charts/usecase"
	symbollisthandler "stock_chart/internal/feature/symbollist/transport/handler"
	"stock_chart/internal/platform/db"
	"stock_chart/internal/platform/logger"
	"stock_chart/internal/platform/metrics"
	infraredis "stock_chart/internal/platform/redis"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	logger.Init("stock-chart-server", logger.LoadConfig())

	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(viper.New())
	if err != nil {
		return err
	}

	// db + watchlist
	gdb, err := db.Open(db.LoadConfigFromEnv())
	if err != nil {
		return err
	}
	symbolUC := di.NewSymbolUsecase(gdb)
	if err := di.SeedWatchlist(ctx, symbolUC, cfg.WatchlistFile); err != nil {
		return err
	}

	// Redis
	rdb, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig())
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	// market data
	market, err := di.NewMarket(cfg.Provider, m)
	if err != nil {
		return err
	}
	cached := di.NewCachedMarket(rdb, cfg.CacheTTL, market, m)
	chartUC := di.NewChartUsecase(cached, m)

	// scheduled warm-up
	if cfg.WarmCron != "" {
		warmUC := chartusecase.NewWarmupUsecase(cached, symbolUC, di.NewWarmupLimiter(cfg.Provider, cfg.WarmRateLimit))
		sched, err := scheduler.New(ctx, cfg.WarmCron, warmUC, 30*time.Minute)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	r := router.NewRouter(
		charthandler.NewChartHandler(chartUC, pngchart.NewRenderer(cfg.PNGWidth)),
		symbollisthandler.NewSymbolHandler(symbolUC),
		m, reg,
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           http.TimeoutHandler(r, cfg.RequestTimeout, `{"error":"request timed out"}`),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr, "provider", cfg.Provider)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
