// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// moneyEpsilon is the tolerance for monetary comparisons (one cent).
var moneyEpsilon = decimal.New(1, -2)

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// MoneyEqual reports whether two amounts are equal within one cent.
// Stored amounts come back from NUMERIC columns with varying exponents,
// so exact Cmp on unrounded values is too strict for invariant checks.
func MoneyEqual(a, b Money) bool {
	return a.Sub(b).Abs().LessThanOrEqual(moneyEpsilon)
}
