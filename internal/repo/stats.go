// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-cashback-backend/internal/domain"
)

// PurchasesStats returns aggregate metadata for a seller's purchases: the
// total number of rows and the maximum UpdatedAt timestamp among those rows.
// Because the window recompute touches UpdatedAt on every rewritten purchase,
// this pair changes whenever any percentage changes, which makes it a sound
// ETag source for the purchase listing.
//
// When the seller has no purchases, the returned count is 0 and maxUpdatedAt
// is nil.
func PurchasesStats(ctx context.Context, db *gorm.DB, sellerID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Purchase{}).Where("seller_id = ?", sellerID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
