// Package services – SellerService
//
// This file implements the SellerService, which owns seller registration and
// credential verification. Registration canonicalizes the CPF (check digits
// included), splits the display name, and stores a bcrypt hash of the
// password; the plaintext never leaves this method. Authentication compares
// the stored hash and deliberately collapses "unknown login" and "wrong
// password" into a single error.
//
// Service-level errors (e.g., ErrDuplicateLogin) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tbourn/go-cashback-backend/internal/domain"
	"github.com/tbourn/go-cashback-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SellerService provides registration and credential checks for sellers.
type SellerService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// MinPasswordLen caps how short a registration password may be.
	MinPasswordLen int

	// BcryptCost overrides the hashing cost; zero means bcrypt.DefaultCost.
	BcryptCost int
}

// NewSellerService constructs a SellerService with sane defaults.
func NewSellerService(db *gorm.DB) *SellerService {
	return &SellerService{
		DB:             db,
		MinPasswordLen: 8,
	}
}

// Register creates a new seller account. The CPF is sanitized to its
// canonical 11-digit form (rejecting bad check digits), the full name is
// split into first/last, and the password is stored as a bcrypt hash.
func (s *SellerService) Register(ctx context.Context, login, fullName, email, cpf, password string) (*domain.Seller, error) {
	tr := otel.Tracer("services/SellerService")
	ctx, span := tr.Start(ctx, "Register",
		trace.WithAttributes(attribute.String("seller.login", login)),
	)
	defer span.End()

	login = strings.TrimSpace(login)
	email = strings.TrimSpace(email)
	if login == "" {
		return nil, ErrInvalidCredentials
	}
	if len(password) < s.minPasswordLen() {
		return nil, ErrWeakPassword
	}

	canonical, err := domain.SanitizeCPF(cpf)
	if err != nil {
		return nil, err
	}

	// Pre-checks give precise duplicate errors; the unique indexes remain
	// the source of truth under concurrency.
	if _, err := repo.GetSellerByLogin(ctx, s.DB, login); err == nil {
		return nil, ErrDuplicateLogin
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if _, err := repo.GetSellerByCPF(ctx, s.DB, canonical); err == nil {
		return nil, ErrDuplicateCPF
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost())
	if err != nil {
		return nil, err
	}

	seller := &domain.Seller{
		Login:        login,
		CPF:          canonical,
		Email:        email,
		PasswordHash: string(hash),
	}
	seller.SetName(fullName)

	if err := repo.CreateSeller(ctx, s.DB, seller); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			// Lost the race after the pre-checks passed.
			return nil, ErrDuplicateLogin
		}
		return nil, err
	}
	return seller, nil
}

// Authenticate verifies a login/password pair and returns the seller on
// success. Unknown logins and wrong passwords both yield
// ErrInvalidCredentials.
func (s *SellerService) Authenticate(ctx context.Context, login, password string) (*domain.Seller, error) {
	tr := otel.Tracer("services/SellerService")
	ctx, span := tr.Start(ctx, "Authenticate",
		trace.WithAttributes(attribute.String("seller.login", login)),
	)
	defer span.End()

	seller, err := repo.GetSellerByLogin(ctx, s.DB, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(seller.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return seller, nil
}

// Get returns a seller by ID, mapping missing rows to ErrSellerNotFound.
func (s *SellerService) Get(ctx context.Context, id string) (*domain.Seller, error) {
	seller, err := repo.GetSeller(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return seller, nil
}

func (s *SellerService) minPasswordLen() int {
	if s.MinPasswordLen > 0 {
		return s.MinPasswordLen
	}
	return 8
}

func (s *SellerService) bcryptCost() int {
	if s.BcryptCost > 0 {
		return s.BcryptCost
	}
	return bcrypt.DefaultCost
}
