// Package services defines the business logic for sellers, purchases, and
// cashback balance lookups. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

var (
	// ErrSellerNotFound indicates that the requested seller does not exist.
	ErrSellerNotFound = errors.New("seller not found")

	// ErrInvalidCredentials is returned when a login attempt fails, either
	// because the login is unknown or the password does not match. The two
	// cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateLogin is returned when registering a seller whose login is
	// already taken.
	ErrDuplicateLogin = errors.New("login already registered")

	// ErrDuplicateCPF is returned when registering a seller whose CPF is
	// already registered under another account.
	ErrDuplicateCPF = errors.New("cpf already registered")

	// ErrWeakPassword is returned when a registration password is shorter
	// than the configured minimum.
	ErrWeakPassword = errors.New("password too short")

	// ErrInvalidCode is returned when a purchase code is blank or exceeds
	// the six-character order-code format.
	ErrInvalidCode = errors.New("invalid purchase code")

	// ErrDuplicateCode is returned when a purchase reuses an existing
	// order code.
	ErrDuplicateCode = errors.New("purchase code already exists")

	// ErrInvalidAmount is returned when a purchase amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrCPFMismatch is returned when the CPF submitted with a purchase does
	// not belong to the authenticated seller.
	ErrCPFMismatch = errors.New("cpf does not belong to the authenticated seller")

	// ErrStalePurchase is returned when a purchase is dated more than thirty
	// days before submission and therefore outside the cashback window.
	ErrStalePurchase = errors.New("purchase date outside the cashback window")

	// ErrBalanceUnavailable is returned when the external balance provider
	// cannot be reached or answers with an unexpected payload.
	ErrBalanceUnavailable = errors.New("balance provider unavailable")
)
