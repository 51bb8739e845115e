/*
money.go - Fixed-precision monetary amounts

PURPOSE:
  All amounts in the ledger (transaction amounts, payments, balances)
  use decimal.Decimal instead of float64. Running sums over a party's
  lifetime accumulate hundreds of additions; binary floating point
  drifts, decimals don't.

PARSING:
  Amounts crossing the API boundary arrive as strings or JSON numbers.
  ParseMoney validates numeric input; ParsePositiveMoney additionally
  rejects zero and negative values (the field-level invariant: raw
  amounts are never negative, sign lives only in the derived balance).

SEE ALSO:
  - balance.go: Signed running total derived from Money amounts
  - types.go: Transaction/Payment records carrying Money
*/
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Decimal amount
// =============================================================================

// Money is a fixed-precision monetary amount.
// The zero value is a valid zero amount.
type Money struct {
	value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int64) Money {
	return Money{value: decimal.NewFromInt(value)}
}

// ParseMoney parses a decimal string such as "149.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{value: d}, nil
}

// ParsePositiveMoney parses an amount that must be strictly positive.
// Used at mutation boundaries: payments and transaction amounts.
func ParsePositiveMoney(s string) (Money, error) {
	m, err := ParseMoney(s)
	if err != nil {
		return Money{}, err
	}
	if !m.IsPositive() {
		return Money{}, fmt.Errorf("amount must be positive, got %s", m)
	}
	return m, nil
}

func Zero() Money {
	return Money{value: decimal.Zero}
}

// =============================================================================
// ARITHMETIC
// =============================================================================

func (m Money) Add(o Money) Money { return Money{value: m.value.Add(o.value)} }
func (m Money) Sub(o Money) Money { return Money{value: m.value.Sub(o.value)} }
func (m Money) Neg() Money        { return Money{value: m.value.Neg()} }
func (m Money) Abs() Money        { return Money{value: m.value.Abs()} }

// Mul multiplies by a decimal factor (quantity × unit price).
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{value: m.value.Mul(factor)}
}

func (m Money) IsZero() bool     { return m.value.IsZero() }
func (m Money) IsPositive() bool { return m.value.IsPositive() }
func (m Money) IsNegative() bool { return m.value.IsNegative() }

func (m Money) Equal(o Money) bool       { return m.value.Equal(o.value) }
func (m Money) GreaterThan(o Money) bool { return m.value.GreaterThan(o.value) }
func (m Money) LessThan(o Money) bool    { return m.value.LessThan(o.value) }

// Decimal exposes the underlying value for storage and serialization.
func (m Money) Decimal() decimal.Decimal { return m.value }

// Float64 returns an approximate float for API responses.
func (m Money) Float64() float64 {
	f, _ := m.value.Float64()
	return f
}

func (m Money) String() string { return m.value.String() }

// =============================================================================
// JSON
// =============================================================================

// Money marshals as a JSON number string to keep precision on the wire.

func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.MarshalJSON()
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.value.UnmarshalJSON(data)
}
