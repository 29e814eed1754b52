package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrPercentageOutOfRange signals a stored cashback percentage outside the
// [0, 20] range. It indicates corrupted state (the save workflow never
// produces such a value) and is therefore surfaced as a hard error rather
// than clamped.
var ErrPercentageOutOfRange = errors.New("cashback percentage out of range")

// Tier thresholds and percentages. The boundary asymmetry is intentional:
// 1000 and 1500 both land in the 15% band (closed upper bounds).
var (
	tierSmallUpper = decimal.NewFromInt(1000)
	tierMidUpper   = decimal.NewFromInt(1500)

	pctSmall = decimal.NewFromInt(10)
	pctMid   = decimal.NewFromInt(15)
	pctLarge = decimal.NewFromInt(20)

	percentageMax = decimal.NewFromInt(20)
	oneHundred    = decimal.NewFromInt(100)
)

// TierPercentage maps a monetary amount onto its cashback percentage band.
// It is total over all decimal inputs; the first matching branch wins:
//
//	amount <= 0            ->  0
//	0 < amount < 1000      -> 10
//	1000 <= amount <= 1500 -> 15
//	amount > 1500          -> 20
func TierPercentage(amount decimal.Decimal) decimal.Decimal {
	switch {
	case amount.Sign() <= 0:
		return decimal.Zero
	case amount.LessThan(tierSmallUpper):
		return pctSmall
	case amount.LessThanOrEqual(tierMidUpper):
		return pctMid
	default:
		return pctLarge
	}
}

// CashbackAmount derives the monetary cashback for the purchase in
// fixed-point decimal arithmetic: amount * percentage / 100.
//
// A zero amount or zero percentage yields 0 without error. A percentage
// outside [0, 20] returns ErrPercentageOutOfRange; the invariant is enforced
// at read time as well as at write time.
func (p *Purchase) CashbackAmount() (decimal.Decimal, error) {
	if p.Amount.IsZero() || p.Percentage.IsZero() {
		return decimal.Zero, nil
	}
	if p.Percentage.Sign() < 0 || p.Percentage.GreaterThan(percentageMax) {
		return decimal.Decimal{}, ErrPercentageOutOfRange
	}
	return p.Amount.Mul(p.Percentage).Div(oneHundred), nil
}
