// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Purchase
// model, including the seller-scoped window scan and the bulk percentage
// overwrite used by the cashback recompute.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-cashback-backend/internal/domain"
)

// CreatePurchase inserts a new purchase row. It accepts the bare handle (no
// context plumbing) so it can run inside the save-workflow transaction; the
// service binds the context on the transaction itself. ID and CreatedAt are
// filled here. A duplicate purchase code maps to ErrDuplicate.
func CreatePurchase(db *gorm.DB, p *domain.Purchase) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	if err := db.Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetPurchase fetches a purchase by ID.
func GetPurchase(db *gorm.DB, id string) (*domain.Purchase, error) {
	var p domain.Purchase
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CountPurchases returns the total number of purchases owned by sellerID.
func CountPurchases(ctx context.Context, db *gorm.DB, sellerID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Purchase{}).
		Where("seller_id = ?", sellerID).
		Count(&total).Error
	return total, err
}

// ListPurchasesPage returns a paginated slice of purchases for sellerID,
// most recent first. Use CountPurchases to obtain the total for pagination
// metadata. The caller computes offset and limit (e.g., (page-1)*pageSize).
func ListPurchasesPage(ctx context.Context, db *gorm.DB, sellerID string, offset, limit int) ([]domain.Purchase, error) {
	var out []domain.Purchase
	err := db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("date DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// FindPurchasesInWindow returns every purchase of sellerID whose date falls
// in [from, to). Bounds are timestamps; the service derives them from
// calendar dates (UTC midnights) so the comparison is by day, not by the
// time-of-day of individual purchases. Ordered deterministically for stable
// window sums.
func FindPurchasesInWindow(db *gorm.DB, sellerID string, from, to time.Time) ([]domain.Purchase, error) {
	var out []domain.Purchase
	err := db.
		Where("seller_id = ? AND date >= ? AND date < ?", sellerID, from, to).
		Order("date ASC, id ASC").
		Find(&out).Error
	return out, err
}

// UpdatePercentageBulk overwrites the cashback percentage of every purchase
// in ids with a single UPDATE. A nil/empty id set is a no-op.
func UpdatePercentageBulk(db *gorm.DB, ids []string, pct decimal.Decimal) error {
	if len(ids) == 0 {
		return nil
	}
	return db.
		Model(&domain.Purchase{}).
		Where("id IN ?", ids).
		Update("percentage", pct).Error
}
