// Package auth issues and verifies the JWT pairs used to authenticate
// sellers. Tokens are HS256-signed; an access token carries the seller ID as
// its subject and a short TTL, while the refresh token carries a longer TTL
// and is only accepted by the refresh endpoint. The token type is pinned in a
// dedicated claim so one kind can never stand in for the other.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the "typ" claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry, issuer,
// or token-type checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload for both token kinds.
type Claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Manager signs and verifies seller tokens.
type Manager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewManager constructs a Manager. Zero TTLs fall back to 15 minutes for
// access tokens and 7 days for refresh tokens.
func NewManager(secret, issuer string, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret required")
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Manager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// IssuePair returns a fresh access/refresh token pair for the seller.
func (m *Manager) IssuePair(sellerID string) (access, refresh string, err error) {
	if access, err = m.issue(sellerID, TypeAccess, m.accessTTL); err != nil {
		return "", "", err
	}
	if refresh, err = m.issue(sellerID, TypeRefresh, m.refreshTTL); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (m *Manager) issue(sellerID, typ string, ttl time.Duration) (string, error) {
	now := m.now().UTC()
	claims := Claims{
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sellerID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// VerifyAccess validates an access token and returns the seller ID.
func (m *Manager) VerifyAccess(token string) (string, error) {
	return m.verify(token, TypeAccess)
}

// VerifyRefresh validates a refresh token and returns the seller ID.
func (m *Manager) VerifyRefresh(token string) (string, error) {
	return m.verify(token, TypeRefresh)
}

func (m *Manager) verify(token, wantType string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return m.now() }),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return "", ErrInvalidToken
	}
	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
