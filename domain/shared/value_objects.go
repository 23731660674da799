package shared

import (
	"errors"
	"math"
)

// DefaultCurrency is the storefront's settlement currency.
const DefaultCurrency = "INR"

var ErrCurrencyMismatch = errors.New("currency mismatch")
var ErrAmountOverflow = errors.New("amount overflow")

// Money value object. Amounts are held in the smallest currency unit (paise).
type Money struct {
	amount   int64
	currency string
}

// NewMoney creates a Money value object
func NewMoney(amount int64, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: amount, currency: currency}
}

// Zero returns a zero amount in the given currency
func Zero(currency string) Money {
	return NewMoney(0, currency)
}

func (m Money) Amount() int64    { return m.amount }
func (m Money) Currency() string { return m.currency }
func (m Money) IsZero() bool     { return m.amount == 0 }

// Major returns the amount in major units (rupees) for display.
func (m Money) Major() float64 {
	return float64(m.amount) / 100
}

// Add returns m + other
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	sum := m.amount + other.amount
	if (other.amount > 0 && sum < m.amount) || (other.amount < 0 && sum > m.amount) {
		return Money{}, ErrAmountOverflow
	}
	return Money{amount: sum, currency: m.currency}, nil
}

// Subtract returns m - other
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	if other.amount == math.MinInt64 {
		return Money{}, ErrAmountOverflow
	}
	return m.Add(Money{amount: -other.amount, currency: other.currency})
}

// Multiply returns m * quantity with an overflow check
func (m Money) Multiply(quantity int) (Money, error) {
	if quantity == 0 || m.amount == 0 {
		return Money{amount: 0, currency: m.currency}, nil
	}
	q := int64(quantity)
	product := m.amount * q
	if product/q != m.amount {
		return Money{}, ErrAmountOverflow
	}
	return Money{amount: product, currency: m.currency}, nil
}

func (m Money) IsGreaterThan(other Money) bool {
	return m.amount > other.amount
}

func (m Money) Equals(other interface{}) bool {
	o, ok := other.(Money)
	if !ok {
		return false
	}
	return m.amount == o.amount && m.currency == o.currency
}
