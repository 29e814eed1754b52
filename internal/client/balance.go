// Package client contains thin HTTP clients for upstream services. This file
// implements the accumulated-cashback balance client. The provider answers a
// GET with the CPF as a query parameter and a static token header; the credit
// comes back in cents and is converted to a currency decimal here so callers
// never see the wire unit.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// BalanceConfig defines the HTTP client settings for the balance provider.
type BalanceConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Balance retrieves the accumulated cashback credit for a CPF.
type Balance struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// balanceEnvelope mirrors the provider's wire format. The outer statusCode
// duplicates the HTTP status; credit is an integer amount in cents.
type balanceEnvelope struct {
	StatusCode int `json:"statusCode"`
	Body       struct {
		Credit int64 `json:"credit"`
	} `json:"body"`
}

// NewBalance constructs a balance client with sane defaults.
func NewBalance(cfg BalanceConfig) (*Balance, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("balance: base url required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Balance{
		baseURL: strings.TrimRight(base, "/"),
		token:   strings.TrimSpace(cfg.Token),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Credit fetches the accumulated cashback for the supplied canonical CPF and
// converts it from cents to a currency amount.
func (c *Balance) Credit(ctx context.Context, cpf string) (decimal.Decimal, error) {
	if c == nil {
		return decimal.Zero, fmt.Errorf("balance: client not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?cpf="+url.QueryEscape(cpf), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance: request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("token", c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance: call: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("balance: unexpected status %d", resp.StatusCode)
	}
	var payload balanceEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("balance: decode: %w", err)
	}
	if payload.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("balance: provider status %d", payload.StatusCode)
	}

	credit := decimal.NewFromInt(payload.Body.Credit).Div(oneHundred)
	log.Debug().Str("component", "balance_client").Str("credit", credit.String()).Msg("balance resolved")
	return credit, nil
}
