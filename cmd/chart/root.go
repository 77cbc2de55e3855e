package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stock_chart/internal/app/config"
	"stock_chart/internal/app/di"
	"stock_chart/internal/platform/cache"
	"stock_chart/internal/platform/logger"
	infraredis "stock_chart/internal/platform/redis"
)

// cli carries the state shared by every subcommand.
type cli struct {
	v        *viper.Viper
	cfg      config.Config
	showOpts showOptions
}

func newRootCmd() *cobra.Command {
	return (&cli{v: viper.New()}).rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "chart <TICKER>",
		Short:        "Show the technical-indicator summary of a stock",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("provider", config.ProviderYahoo, "market data provider (yahoo|twelvedata)")
	pf.Duration("cache-ttl", 0, "cache entry lifetime; 0 keeps entries until the next daily refresh")
	pf.String("watchlist", "configs/watchlist.yaml", "watchlist seed file")
	pf.String("log-level", "warn", "log level (debug|info|warn|error)")

	_ = c.v.BindPFlag(config.KeyProvider, pf.Lookup("provider"))
	_ = c.v.BindPFlag(config.KeyCacheTTL, pf.Lookup("cache-ttl"))
	_ = c.v.BindPFlag(config.KeyWatchlistFile, pf.Lookup("watchlist"))
	_ = c.v.BindPFlag("log_level", pf.Lookup("log-level"))

	addShowFlags(root, &c.showOpts)
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return c.show(cmd, args[0])
	}

	root.AddCommand(newWarmCmd(c), newWatchlistCmd(c))
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	_ = godotenv.Load()

	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}
	c.cfg = cfg

	lc := logger.LoadConfig()
	lc.Level = logger.ParseLevel(c.v.GetString("log_level"))
	lc.Format = "text"
	logger.Init("stock-chart-cli", lc)
	return nil
}

// market builds the cached provider. Without Redis the cache is bypassed.
func (c *cli) market(ctx context.Context) (*cache.CachingMarketRepository, func(), error) {
	market, err := di.NewMarket(c.cfg.Provider, nil)
	if err != nil {
		return nil, nil, err
	}
	rdb, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig())
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		rdb = nil
	}
	closeFn := func() {}
	if rdb != nil {
		closeFn = func() { _ = rdb.Close() }
	}
	return di.NewCachedMarket(rdb, c.cfg.CacheTTL, market, nil), closeFn, nil
}
