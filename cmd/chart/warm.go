package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stock_chart/internal/app/di"
	"stock_chart/internal/feature/charts/usecase"
	"stock_chart/internal/platform/db"
)

func newWarmCmd(c *cli) *cobra.Command {
	var (
		refresh bool
		rate    int
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Pre-fetch every watchlist symbol for all periods into the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			gdb, err := db.Open(db.LoadConfigFromEnv())
			if err != nil {
				return err
			}
			symbols := di.NewSymbolUsecase(gdb)
			if err := di.SeedWatchlist(ctx, symbols, c.cfg.WatchlistFile); err != nil {
				return err
			}

			market, closeFn, err := c.market(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			if refresh {
				if err := market.Invalidate(ctx, ""); err != nil {
					return fmt.Errorf("invalidate cache: %w", err)
				}
			}

			if rate == 0 {
				rate = c.cfg.WarmRateLimit
			}
			uc := usecase.NewWarmupUsecase(market, symbols, di.NewWarmupLimiter(c.cfg.Provider, rate))
			res, err := uc.WarmAll(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "warmed %d series, %d failed\n", res.Fetched, res.Failed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "drop cached series before fetching")
	cmd.Flags().IntVar(&rate, "rate", 0, "provider calls per minute; 0 uses WARMUP_RATE_LIMIT or the provider quota")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "abort the warm-up after this long")
	return cmd
}
