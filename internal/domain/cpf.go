// Package domain defines the persistence models and the core cashback rules
// for the application: CPF validation, tier percentages, and the derived
// cashback amount. This file implements the CPF (Brazilian taxpayer ID)
// check-digit algorithm and sanitization.
package domain

import "fmt"

// InvalidCPFError reports a taxpayer ID that failed sanitization. It carries
// the raw value exactly as submitted so the HTTP layer can echo it back in
// the rejection message.
type InvalidCPFError struct {
	Raw string
}

// Error implements the error interface.
func (e *InvalidCPFError) Error() string {
	return fmt.Sprintf("invalid CPF %q", e.Raw)
}

// CheckDigit computes a CPF verification digit over an ordered digit sequence
// using the weighted modulo-11 scheme: the sequence is walked in reverse and
// position i (0-indexed, from the end) carries weight 9 - (i mod 10). The
// result is (sum % 11) % 10, which deliberately folds a remainder of 10 into
// the digit 0. An empty sequence yields 0.
//
// The modulo-10 wrap-around must not be "fixed": changing it silently
// mis-validates real government-issued IDs.
func CheckDigit(digits []int) int {
	sum := 0
	n := len(digits)
	for i := 0; i < n; i++ {
		sum += digits[n-1-i] * (9 - i%10)
	}
	return sum % 11 % 10
}

// SanitizeCPF validates raw as a CPF and returns its canonical, digits-only
// form. Formatting characters ("153.509.460-56") are stripped before
// validation. The function is pure and idempotent: sanitizing an already
// canonical CPF returns it unchanged.
//
// Validation steps:
//  1. empty input is invalid
//  2. after stripping non-digits, exactly 11 digits must remain
//  3. digit 10 must be CheckDigit of digits 1..9, and digit 11 must be
//     CheckDigit of digits 1..10 (the first computed digit joins the base
//     before the second is derived)
//
// On any failure it returns a *InvalidCPFError carrying the raw input.
func SanitizeCPF(raw string) (string, error) {
	if raw == "" {
		return "", &InvalidCPFError{Raw: raw}
	}

	digits := make([]int, 0, 11)
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) != 11 {
		return "", &InvalidCPFError{Raw: raw}
	}

	base := append(make([]int, 0, 11), digits[:9]...)
	for i := 9; i < 11; i++ {
		d := CheckDigit(base)
		if d != digits[i] {
			return "", &InvalidCPFError{Raw: raw}
		}
		base = append(base, d)
	}

	out := make([]byte, 11)
	for i, d := range base {
		out[i] = byte('0' + d)
	}
	return string(out), nil
}
