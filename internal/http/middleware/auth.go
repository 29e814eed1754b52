// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication. The middleware verifies
// the Authorization header via an injected verifier and stashes the resulting
// seller identity under the "userID" context key, where the rate limiter,
// idempotency validator, and handlers all expect it.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenVerifier validates an access token and returns the seller ID it was
// issued for.
type TokenVerifier func(token string) (string, error)

// ContextKeyUserID is the Gin context key under which RequireAuth stores the
// authenticated seller ID.
const ContextKeyUserID = "userID"

// UserID returns the authenticated seller ID stored by RequireAuth.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextKeyUserID)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// RequireAuth enforces a valid "Authorization: Bearer <token>" header.
// Requests without a verifiable access token are rejected with 401; the
// response uses the same compact envelope as the handler layer.
func RequireAuth(verify TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := strings.TrimSpace(c.GetHeader("Authorization"))
		if authz == "" {
			unauthorized(c, "missing authorization header")
			return
		}
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			unauthorized(c, "authorization must use the Bearer scheme")
			return
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			unauthorized(c, "missing bearer token")
			return
		}

		sellerID, err := verify(token)
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ContextKeyUserID, sellerID)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       "unauthorized",
		"message":    msg,
	})
}
