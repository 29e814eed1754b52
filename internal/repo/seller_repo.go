// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Seller
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a seller is not found, functions return ErrNotFound (an alias of
//     gorm.ErrRecordNotFound).
//   - Unique violations (login or CPF already registered) map to ErrDuplicate.
//   - Other DB errors propagate unchanged.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-cashback-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateSeller inserts a new seller row. The caller provides a fully
// populated model except for ID and CreatedAt, which are filled here
// (random UUID, UTC now). Unique violations on login or CPF are mapped
// to ErrDuplicate.
func CreateSeller(ctx context.Context, db *gorm.DB, s *domain.Seller) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetSeller fetches a seller by primary key, or ErrNotFound.
func GetSeller(ctx context.Context, db *gorm.DB, id string) (*domain.Seller, error) {
	var s domain.Seller
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSellerByLogin fetches a seller by its unique login, or ErrNotFound.
func GetSellerByLogin(ctx context.Context, db *gorm.DB, login string) (*domain.Seller, error) {
	var s domain.Seller
	if err := db.WithContext(ctx).Where("login = ?", login).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSellerByCPF fetches a seller by its canonical CPF, or ErrNotFound.
// Callers must sanitize the CPF first; this function does a literal match.
func GetSellerByCPF(ctx context.Context, db *gorm.DB, cpf string) (*domain.Seller, error) {
	var s domain.Seller
	if err := db.WithContext(ctx).Where("cpf = ?", cpf).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
