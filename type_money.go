package perfindex

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value, used for displaying holding prices in
// the portfolio's base currency.
type Money struct {
	value *money.Money
}

// NewMoney creates a new Money instance from a decimal.Decimal.
func NewMoney(amount decimal.Decimal, currency string) Money {
	// Find the currency first.
	cur := money.GetCurrency(currency)
	if cur == nil {
		return Money{}
	}

	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	amount = amount.Mul(factor)
	return Money{money.New(amount.IntPart(), currency)}
}

func NewMoneyFromFloat(amount float64, currency string) Money {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// IsZero reports whether the value is absent or zero.
func (m Money) IsZero() bool {
	return m.value == nil || m.value.IsZero()
}

// String returns the display representation of the money value, like "$1,234.50".
func (m Money) String() string {
	if m.value == nil {
		return ""
	}
	return m.value.Display()
}
