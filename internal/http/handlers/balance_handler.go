// Balance HTTP handler.
//
// Exposes GET /balance: the authenticated seller's accumulated cashback,
// resolved through the external credit API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tbourn/go-cashback-backend/internal/services"
)

// BalanceResponse carries the seller's accumulated cashback value.
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance" swaggertype:"string" example:"35.23"`
}

// GetBalance godoc
// @ID          getBalance
// @Summary     Accumulated cashback balance
// @Description Returns the authenticated seller's accumulated cashback, as reported by
// @Description the external credit provider.
// @Tags        Balance
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  handlers.BalanceResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse  "Seller not found"
// @Failure     502  {object}  handlers.ErrorResponse  "Credit provider unavailable"
// @Router      /balance [get]
func (h *Handlers) GetBalance(c *gin.Context) {
	uid := sellerID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	bal, err := h.balanceSvc.Balance(c.Request.Context(), uid)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSellerNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "seller not found")
		case errors.Is(err, services.ErrBalanceUnavailable):
			fail(c, http.StatusBadGateway, ErrCodeBalanceUnavailable, "credit provider unavailable")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, BalanceResponse{Balance: bal})
}
