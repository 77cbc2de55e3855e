package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stock_chart/internal/app/di"
	symbollistadapters "stock_chart/internal/feature/symbollist/adapters"
	"stock_chart/internal/platform/db"
)

func newWatchlistCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Inspect or synchronise the watchlist",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print the active watchlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := db.Open(db.LoadConfigFromEnv())
			if err != nil {
				return err
			}
			uc := di.NewSymbolUsecase(gdb)
			if err := di.SeedWatchlist(cmd.Context(), uc, c.cfg.WatchlistFile); err != nil {
				return err
			}
			symbols, err := uc.ListActiveSymbols(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderWatchlist(symbols))
			return nil
		},
	}

	sync := &cobra.Command{
		Use:   "sync",
		Short: "Upsert the watchlist file into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := symbollistadapters.LoadSeedFile(c.cfg.WatchlistFile)
			if err != nil {
				return err
			}
			gdb, err := db.Open(db.LoadConfigFromEnv())
			if err != nil {
				return err
			}
			if err := di.NewSymbolUsecase(gdb).Sync(cmd.Context(), seed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "synced %d symbols from %s\n", len(seed), c.cfg.WatchlistFile)
			return nil
		},
	}

	cmd.AddCommand(list, sync)
	return cmd
}
