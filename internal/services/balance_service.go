// Package services – BalanceService
//
// This file implements BalanceService, which resolves the seller's
// accumulated cashback balance from the external provider. The service
// owns the seller lookup; the wire protocol lives in the client package.
package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-cashback-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreditProvider is the contract for the external balance API.
type CreditProvider interface {
	// Credit returns the accumulated cashback for the given canonical CPF.
	Credit(ctx context.Context, cpf string) (decimal.Decimal, error)
}

// BalanceService looks up a seller's accumulated cashback balance.
type BalanceService struct {
	DB       *gorm.DB
	Provider CreditProvider
}

// NewBalanceService constructs a BalanceService.
func NewBalanceService(db *gorm.DB, p CreditProvider) *BalanceService {
	return &BalanceService{DB: db, Provider: p}
}

// Balance returns the accumulated cashback for the authenticated seller.
// Provider failures surface as ErrBalanceUnavailable wrapping the cause.
func (s *BalanceService) Balance(ctx context.Context, sellerID string) (decimal.Decimal, error) {
	tr := otel.Tracer("services/BalanceService")
	ctx, span := tr.Start(ctx, "Balance",
		trace.WithAttributes(attribute.String("seller.id", sellerID)),
	)
	defer span.End()

	seller, err := repo.GetSeller(ctx, s.DB, sellerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return decimal.Zero, ErrSellerNotFound
		}
		return decimal.Zero, err
	}

	credit, err := s.Provider.Credit(ctx, seller.CPF)
	if err != nil {
		return decimal.Zero, errors.Join(ErrBalanceUnavailable, err)
	}
	return credit, nil
}
