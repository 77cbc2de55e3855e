// Package adapters provides the watchlist repository and its YAML seed loader.
package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_chart/internal/feature/symbollist/domain/entity"
	"stock_chart/internal/feature/symbollist/usecase"
)

// symbolGorm implements SymbolRepository on any gorm dialect (SQLite, PostgreSQL).
type symbolGorm struct {
	db *gorm.DB
}

var _ usecase.SymbolRepository = (*symbolGorm)(nil)

// NewSymbolRepository creates a watchlist repository on db.
func NewSymbolRepository(db *gorm.DB) *symbolGorm {
	return &symbolGorm{db: db}
}

// ListActive returns every active symbol ordered by sort_key.
func (r *symbolGorm) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	var symbols []entity.Symbol
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// ListActiveCodes returns only the codes of active symbols ordered by sort_key.
func (r *symbolGorm) ListActiveCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Symbol{}).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// Count returns the number of stored symbols, active or not.
func (r *symbolGorm) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Symbol{}).Count(&n).Error
	return n, err
}

// UpsertMany inserts symbols, updating name, market, activity and order of existing codes.
func (r *symbolGorm) UpsertMany(ctx context.Context, symbols []entity.Symbol) error {
	if len(symbols) == 0 {
		return nil
	}
	var inactive []string
	for _, s := range symbols {
		if !s.IsActive {
			inactive = append(inactive, s.Code)
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "market", "is_active", "sort_key", "updated_at"}),
		}).Create(&symbols).Error; err != nil {
			return err
		}
		if len(inactive) == 0 {
			return nil
		}
		// a false IsActive is a zero value, so the insert above fell back to the column default
		return tx.Model(&entity.Symbol{}).Where("code IN ?", inactive).Update("is_active", false).Error
	})
}
