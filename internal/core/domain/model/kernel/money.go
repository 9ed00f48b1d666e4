package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of fractional digits a monetary amount may carry.
const moneyScale = 2

// Money is a non-negative monetary amount in the platform currency.
//
// Money wraps shopspring/decimal so sums of line-item prices stay exact. The zero
// value is a valid amount of 0.00, which lets an empty cart carry a zero subtotal
// without a constructor call.
//
// Example:
//
//	base, _ := kernel.MoneyFromString("10.00")
//	extra, _ := kernel.MoneyFromString("2.00")
//	subtotal := base.Add(extra) // 12.00
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns 0.00.
func ZeroMoney() Money {
	return Money{}
}

// NewMoney validates that amount is non-negative and has at most two fractional digits.
//
// Returns:
//   - Money: the validated amount
//   - error: ValueIsOutOfRangeError for negative input, ValueIsInvalidError for sub-cent precision
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), "0", "unbounded")
	}
	if !amount.Equal(amount.Round(moneyScale)) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%s has more than %d fractional digits", amount.String(), moneyScale),
		)
	}
	return Money{amount: amount}, nil
}

// MoneyFromString parses a decimal string such as "12.50".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d)
}

// MoneyFromCents builds an amount from an integer number of cents.
func MoneyFromCents(cents int64) (Money, error) {
	return NewMoney(decimal.New(cents, -moneyScale))
}

// Add returns the sum of both amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m minus other. Money cannot go negative, so a larger subtrahend is an error.
func (m Money) Sub(other Money) (Money, error) {
	return NewMoney(m.amount.Sub(other.amount))
}

// Decimal exposes the amount for persistence and wire mapping.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Cents returns the amount in cents, as payment gateways expect.
func (m Money) Cents() int64 {
	return m.amount.Shift(moneyScale).IntPart()
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}
