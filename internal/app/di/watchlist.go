package di

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"gorm.io/gorm"

	symbollistadapters "stock_chart/internal/feature/symbollist/adapters"
	symbollistusecase "stock_chart/internal/feature/symbollist/usecase"
)

// NewSymbolUsecase creates the watchlist usecase over the gorm repository.
func NewSymbolUsecase(db *gorm.DB) *symbollistusecase.SymbolUsecase {
	return symbollistusecase.NewSymbolUsecase(symbollistadapters.NewSymbolRepository(db))
}

// SeedWatchlist fills an empty watchlist from the YAML file at path.
// A missing file is not an error; the watchlist simply stays empty.
func SeedWatchlist(ctx context.Context, uc *symbollistusecase.SymbolUsecase, path string) error {
	seed, err := symbollistadapters.LoadSeedFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("watchlist file not found, skipping seed", "path", path)
		return nil
	}
	if err != nil {
		return err
	}
	_, err = uc.SeedIfEmpty(ctx, seed)
	return err
}
