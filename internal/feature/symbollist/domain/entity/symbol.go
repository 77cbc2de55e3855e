// Package entity defines the domain models for the symbollist feature.
package entity

import "time"

// Symbol is one watchlist entry: a ticker offered as a quick link on the
// chart form and pre-fetched by the cache warm-up.
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Market    string    `gorm:"size:100;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
