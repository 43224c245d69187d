package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid money amount")

// Round normalizes an amount to cents. Amounts live in NUMERIC(10,2) columns,
// so every value entering the system passes through here exactly once.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Parse reads a user-supplied decimal string like "12.34" or "-5".
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Round(d), nil
}

// USD renders an amount the way failure messages quote it: $12.34, -$0.50.
func USD(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
