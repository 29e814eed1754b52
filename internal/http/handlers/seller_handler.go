// Seller HTTP handlers.
//
// This file exposes REST endpoints for seller accounts:
//   - POST   /sellers          (register)
//   - POST   /sellers/login    (credential login, returns token pair)
//   - POST   /sellers/refresh  (exchange refresh token for a new pair)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-cashback-backend/internal/domain"
	"github.com/tbourn/go-cashback-backend/internal/services"
	"github.com/tbourn/go-cashback-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// SellerService defines seller account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SellerService interface {
	// Register creates a seller account with a canonical CPF and hashed password.
	Register(ctx context.Context, login, fullName, email, cpf, password string) (*domain.Seller, error)
	// Authenticate verifies a login/password pair.
	Authenticate(ctx context.Context, login, password string) (*domain.Seller, error)
}

// PurchaseService defines purchase submission and listing operations.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type PurchaseService interface {
	// Create runs the purchase submission workflow for the authenticated seller.
	Create(ctx context.Context, sellerID, code, cpf string, amount decimal.Decimal, date time.Time) (*domain.Purchase, error)
	// ListPage returns a page of the seller's purchases and the total count.
	ListPage(ctx context.Context, sellerID string, page, pageSize int) ([]domain.Purchase, int64, error)
}

// BalanceService resolves the seller's accumulated cashback balance.
type BalanceService interface {
	// Balance returns the accumulated cashback for the seller.
	Balance(ctx context.Context, sellerID string) (decimal.Decimal, error)
}

// TokenManager issues and verifies the JWT pairs used by the auth endpoints.
type TokenManager interface {
	// IssuePair returns a fresh access/refresh token pair for the seller.
	IssuePair(sellerID string) (access, refresh string, err error)
	// VerifyRefresh validates a refresh token and returns the seller ID.
	VerifyRefresh(token string) (string, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for sellers, purchases, and balance lookups.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	sellerSvc   SellerService
	purchaseSvc PurchaseService
	balanceSvc  BalanceService
	tokens      TokenManager

	// DB backs the handler-level persistence concerns: Idempotency-Key replay
	// records and the listing stats behind ETags. Nil disables both; the
	// endpoints otherwise behave normally.
	DB *gorm.DB

	// IdempotencyTTL bounds how long a stored Idempotency-Key replay is valid.
	IdempotencyTTL time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
func New(sellerSvc SellerService, purchaseSvc PurchaseService, balanceSvc BalanceService, tokens TokenManager) *Handlers {
	return &Handlers{
		sellerSvc:      sellerSvc,
		purchaseSvc:    purchaseSvc,
		balanceSvc:     balanceSvc,
		tokens:         tokens,
		IdempotencyTTL: 24 * time.Hour,
	}
}

// sellerID extracts the authenticated seller id from Gin context (set by the
// auth middleware). It never touches c.Request if it's nil.
func sellerID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

//
// DTOs
//

// RegisterSellerRequest is the JSON payload for registering a seller.
type RegisterSellerRequest struct {
	// Login is the unique account identifier.
	Login string `json:"login" binding:"required,min=1,max=64" example:"maria.s"`
	// Name is the seller's display name; it is split into first/last.
	Name string `json:"name" binding:"required,min=1,max=255" example:"Maria Silva"`
	// Email is the contact address.
	Email string `json:"email" binding:"required,email" example:"maria@example.com"`
	// CPF may be bare digits or formatted (153.509.460-56).
	CPF string `json:"cpf" binding:"required" example:"153.509.460-56"`
	// Password must be at least 8 characters.
	Password string `json:"password" binding:"required,min=8" example:"s3cret-pass"`
}

// LoginRequest is the JSON payload for credential login.
type LoginRequest struct {
	Login    string `json:"login" binding:"required" example:"maria.s"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// RefreshRequest is the JSON payload for refreshing a token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenPairResponse carries a freshly issued token pair.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type" example:"bearer"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// RegisterSeller godoc
// @ID          registerSeller
// @Summary     Register a seller
// @Description Creates a seller account. The CPF is validated (check digits) and stored canonical.
// @Tags        Sellers
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterSellerRequest  true  "Registration payload"
//
// @Success     201  {object}  domain.Seller
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request / invalid CPF"
// @Failure     409  {object}  handlers.ErrorResponse  "Login or CPF already registered"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sellers [post]
func (h *Handlers) RegisterSeller(c *gin.Context) {
	var req RegisterSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid registration payload")
		return
	}

	s, err := h.sellerSvc.Register(c.Request.Context(), req.Login, req.Name, req.Email, req.CPF, req.Password)
	if err != nil {
		var invalidCPF *domain.InvalidCPFError
		switch {
		case errors.As(err, &invalidCPF):
			fail(c, http.StatusBadRequest, ErrCodeInvalidCPF, "cpf is not valid")
		case errors.Is(err, services.ErrWeakPassword):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrDuplicateLogin), errors.Is(err, services.ErrDuplicateCPF):
			fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, s)
}

// Login godoc
// @ID          loginSeller
// @Summary     Login
// @Description Verifies credentials and returns an access/refresh token pair.
// @Tags        Sellers
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
//
// @Success     200  {object}  handlers.TokenPairResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sellers/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "login and password are required")
		return
	}

	s, err := h.sellerSvc.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid credentials")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	access, refresh, err := h.tokens.IssuePair(s.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not issue tokens")
		return
	}
	ok(c, http.StatusOK, TokenPairResponse{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"})
}

// Refresh godoc
// @ID          refreshToken
// @Summary     Refresh tokens
// @Description Exchanges a valid refresh token for a new access/refresh pair.
// @Tags        Sellers
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RefreshRequest  true  "Refresh token"
//
// @Success     200  {object}  handlers.TokenPairResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid refresh token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sellers/refresh [post]
func (h *Handlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "refresh_token is required")
		return
	}

	id, err := h.tokens.VerifyRefresh(req.RefreshToken)
	if err != nil {
		fail(c, http.StatusUnauthorized, ErrCodeInvalidToken, "invalid or expired refresh token")
		return
	}

	access, refresh, err := h.tokens.IssuePair(id)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not issue tokens")
		return
	}
	ok(c, http.StatusOK, TokenPairResponse{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"})
}
