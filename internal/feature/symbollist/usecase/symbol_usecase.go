// Package usecase implements the business logic for the watchlist.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"stock_chart/internal/feature/symbollist/domain/entity"
)

// SymbolRepository abstracts the persistence layer for watchlist symbols.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	UpsertMany(ctx context.Context, symbols []entity.Symbol) error
}

// SymbolUsecase provides business logic for watchlist operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols returns all active symbols from the repository.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx)
}

// ListActiveCodes returns the active tickers in display order.
func (u *SymbolUsecase) ListActiveCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveCodes(ctx)
}

// SeedIfEmpty stores seed when the watchlist has never been populated.
// It reports whether anything was written.
func (u *SymbolUsecase) SeedIfEmpty(ctx context.Context, seed []entity.Symbol) (bool, error) {
	n, err := u.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count watchlist: %w", err)
	}
	if n > 0 || len(seed) == 0 {
		return false, nil
	}
	if err := u.repo.UpsertMany(ctx, seed); err != nil {
		return false, fmt.Errorf("seed watchlist: %w", err)
	}
	slog.Info("watchlist seeded", "symbols", len(seed))
	return true, nil
}

// Sync upserts seed regardless of existing rows, so edits to the seed file take effect.
func (u *SymbolUsecase) Sync(ctx context.Context, seed []entity.Symbol) error {
	if err := u.repo.UpsertMany(ctx, seed); err != nil {
		return fmt.Errorf("sync watchlist: %w", err)
	}
	return nil
}
