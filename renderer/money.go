/*
money.go - Currency-aware display values

PURPOSE:
  Wraps a decimal amount with a currency code for display surfaces (the
  web UI balance line). Formatting goes through go-money so symbols,
  grouping and fraction digits follow the currency, not hand-rolled
  string code. Split table cells stay raw decimals on purpose.
*/
package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is a display value: an amount in a currency's major unit.
type Money struct {
	value    decimal.Decimal
	currency string
}

// NewMoney wraps value in the given ISO currency code ("USD", "EUR").
func NewMoney(value decimal.Decimal, currency string) Money {
	return Money{value: value, currency: currency}
}

// String formats the amount with the currency's symbol and grouping,
// e.g. $1,234.50 for USD. Residues beyond the currency's fraction digits
// are rounded, not truncated.
func (m Money) String() string {
	cur := money.New(0, m.currency).Currency()
	fraction := int32(cur.Fraction)
	shifted := m.value.Round(fraction).Shift(fraction)
	return cur.Formatter().Format(shifted.IntPart())
}

func (m Money) IsZero() bool     { return m.value.IsZero() }
func (m Money) IsNegative() bool { return m.value.IsNegative() }
func (m Money) Abs() Money       { return Money{value: m.value.Abs(), currency: m.currency} }
