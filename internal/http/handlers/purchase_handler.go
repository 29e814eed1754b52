// Purchase HTTP handlers.
//
// This file exposes REST endpoints for purchases owned by the authenticated
// seller:
//   - POST /purchases  (submit a purchase; honors Idempotency-Key replays)
//   - GET  /purchases  (paginated listing with ETag/304 support)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tbourn/go-cashback-backend/internal/domain"
	"github.com/tbourn/go-cashback-backend/internal/http/middleware"
	"github.com/tbourn/go-cashback-backend/internal/repo"
	"github.com/tbourn/go-cashback-backend/internal/services"
)

// CreatePurchaseRequest is the JSON payload for submitting a purchase.
type CreatePurchaseRequest struct {
	// Code is the unique purchase code (at most 6 characters).
	Code string `json:"code" binding:"required,min=1,max=6" example:"A1B2C3"`
	// CPF must match the authenticated seller's registered CPF.
	CPF string `json:"cpf" binding:"required" example:"153.509.460-56"`
	// Amount is the purchase value; must be positive.
	Amount decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"150.00"`
	// Date is the purchase date, "2006-01-02" or RFC 3339. Defaults to now.
	Date string `json:"date" example:"2026-08-15"`
}

// PurchaseView is the API representation of a purchase, including the derived
// cashback value alongside the stored percentage.
type PurchaseView struct {
	ID         string          `json:"id"`
	Code       string          `json:"code"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"string" example:"150.00"`
	Date       time.Time       `json:"date"`
	Status     string          `json:"status" example:"pending review"`
	Percentage decimal.Decimal `json:"percentage" swaggertype:"string" example:"10"`
	Cashback   decimal.Decimal `json:"cashback" swaggertype:"string" example:"15.00"`
}

// ListPurchasesResponse is the paginated purchase listing envelope.
type ListPurchasesResponse struct {
	Data       []PurchaseView `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// newPurchaseView projects a Purchase into its API shape.
func newPurchaseView(p *domain.Purchase) (PurchaseView, error) {
	cb, err := p.CashbackAmount()
	if err != nil {
		return PurchaseView{}, err
	}
	return PurchaseView{
		ID:         p.ID,
		Code:       p.Code,
		Amount:     p.Amount,
		Date:       p.Date,
		Status:     p.Status,
		Percentage: p.Percentage,
		Cashback:   cb,
	}, nil
}

// parsePurchaseDate accepts "2006-01-02" or RFC 3339; blank means "now".
func parsePurchaseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	if d, err := time.Parse("2006-01-02", raw); err == nil {
		return d.UTC(), nil
	}
	d, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return d.UTC(), nil
}

// CreatePurchase godoc
// @ID          createPurchase
// @Summary     Submit a purchase
// @Description Registers a purchase for the authenticated seller and assigns the cashback
// @Description percentage for the trailing 30-day window. Retries carrying the same
// @Description Idempotency-Key replay the stored outcome instead of creating a duplicate.
// @Tags        Purchases
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       Idempotency-Key  header  string                          false  "Safe-retry key"
// @Param       body             body    handlers.CreatePurchaseRequest  true   "Purchase payload"
//
// @Success     201  {object}  handlers.PurchaseView
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request / invalid CPF"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     403  {object}  handlers.ErrorResponse  "CPF does not belong to the seller"
// @Failure     409  {object}  handlers.ErrorResponse  "Purchase code already used"
// @Failure     422  {object}  handlers.ErrorResponse  "Purchase date outside the cashback window"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /purchases [post]
func (h *Handlers) CreatePurchase(c *gin.Context) {
	uid := sellerID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid purchase payload")
		return
	}
	date, err := parsePurchaseDate(req.Date)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date must be YYYY-MM-DD or RFC 3339")
		return
	}

	// Replay: when the request carries an Idempotency-Key and a still-valid
	// record exists for (seller, key), return the original outcome. The check
	// happens here rather than in the middleware because the seller identity
	// is only resolved by the auth layer on this route group.
	if key, hasKey := middleware.GetIdempotencyKey(c); hasKey {
		if h.DB != nil {
			if rec, err := repo.GetIdempotency(c.Request.Context(), h.DB, uid, key, time.Now().UTC()); err == nil {
				if p, err := repo.GetPurchase(h.DB.WithContext(c.Request.Context()), rec.PurchaseID); err == nil {
					if view, err := newPurchaseView(p); err == nil {
						ok(c, rec.Status, view)
						return
					}
				}
			}
		}
		// No stored record (or it vanished mid-flight); process normally.
	}

	p, err := h.purchaseSvc.Create(c.Request.Context(), uid, req.Code, req.CPF, req.Amount, date)
	if err != nil {
		var invalidCPF *domain.InvalidCPFError
		switch {
		case errors.As(err, &invalidCPF):
			fail(c, http.StatusBadRequest, ErrCodeInvalidCPF, "cpf is not valid")
		case errors.Is(err, services.ErrInvalidCode), errors.Is(err, services.ErrInvalidAmount):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrCPFMismatch):
			fail(c, http.StatusForbidden, ErrCodeCPFMismatch, "cpf does not belong to the authenticated seller")
		case errors.Is(err, services.ErrStalePurchase):
			fail(c, http.StatusUnprocessableEntity, ErrCodeStalePurchase, "purchase date outside the cashback window")
		case errors.Is(err, services.ErrDuplicateCode):
			fail(c, http.StatusConflict, ErrCodeConflict, "purchase code already used")
		case errors.Is(err, services.ErrSellerNotFound):
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "unknown seller")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	view, err := newPurchaseView(p)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	// Record the outcome for future replays. Best effort: a race on the same
	// key means another request already stored an equivalent record.
	if key, hasKey := middleware.GetIdempotencyKey(c); hasKey {
		if h.DB != nil {
			if _, err := repo.CreateIdempotency(c.Request.Context(), h.DB, uid, key, p.ID, http.StatusCreated, h.IdempotencyTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
				middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record not stored")
			}
		}
	}

	ok(c, http.StatusCreated, view)
}

// ListPurchases godoc
// @ID          listPurchases
// @Summary     List purchases
// @Description Returns the authenticated seller's purchases, newest first, with the
// @Description current cashback percentage and value per purchase. Supports ETag
// @Description revalidation: send If-None-Match to receive 304 when nothing changed.
// @Tags        Purchases
// @Produce     json
// @Security    BearerAuth
//
// @Param       page       query  int  false  "Page number (default 1)"
// @Param       page_size  query  int  false  "Page size (default 20, max 100)"
//
// @Success     200  {object}  handlers.ListPurchasesResponse
// @Success     304  "Not Modified"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /purchases [get]
func (h *Handlers) ListPurchases(c *gin.Context) {
	uid := sellerID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}
	page, pageSize := clampPagination(c)

	// Weak ETag from (count, max updated_at): the window recompute touches
	// UpdatedAt, so any percentage rewrite invalidates cached listings.
	if h.DB != nil {
		count, maxTS, err := repo.PurchasesStats(c.Request.Context(), h.DB, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.UnixNano()
			}
			etag := fmt.Sprintf("W/\"purchases:%s:%d:%d\"", uid, count, ts)
			c.Header("ETag", etag)
			if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.purchaseSvc.ListPage(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	views := make([]PurchaseView, 0, len(items))
	for i := range items {
		v, err := newPurchaseView(&items[i])
		if err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
			return
		}
		views = append(views, v)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListPurchasesResponse{
		Data: views,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}
