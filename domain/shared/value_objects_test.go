package shared

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoney(50000, "")
	assert.Equal(t, DefaultCurrency, a.Currency())

	sum, err := a.Add(NewMoney(120000, "INR"))
	require.NoError(t, err)
	assert.Equal(t, int64(170000), sum.Amount())

	twice, err := a.Multiply(2)
	require.NoError(t, err)
	assert.True(t, twice.Equals(NewMoney(100000, "INR")))
	assert.True(t, twice.IsGreaterThan(a))

	_, err = a.Add(NewMoney(1, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = NewMoney(math.MaxInt64, "INR").Add(NewMoney(1, "INR"))
	assert.ErrorIs(t, err, ErrAmountOverflow)

	_, err = NewMoney(math.MaxInt64/2+1, "INR").Multiply(2)
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestDomainErrorMatchesKind(t *testing.T) {
	err := NewValidationError("order", "billing_name", "billing name is required")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "billing name is required", err.Error())

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "billing_name", de.Field)
	assert.NotEmpty(t, de.Stack())
}
