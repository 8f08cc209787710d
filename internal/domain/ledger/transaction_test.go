package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/core/apperror"
)

func TestTransaction_MarkSettledAndCredit(t *testing.T) {
	tx := NewTransaction(TypeSale, time.Now())
	tx.Total = money("100.00")

	tx.MarkSettled()
	assert.True(t, tx.Payments.Equal(money("100.00")))
	assert.True(t, tx.Balance.IsZero())
	assert.True(t, tx.IsSettled())

	tx.MarkCredit()
	assert.True(t, tx.Payments.IsZero())
	assert.True(t, tx.Balance.Equal(money("100.00")))
	assert.False(t, tx.IsSettled())
}

func TestTransaction_CheckAmounts(t *testing.T) {
	tx := NewTransaction(TypeSale, time.Now())
	tx.Total = money("100.00")
	tx.Payments = money("40.00")
	tx.Balance = money("60.00")
	require.NoError(t, tx.CheckAmounts())

	tx.Balance = money("59.00")
	err := tx.CheckAmounts()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	// Sub-cent drift stays within the tolerance.
	tx.Balance = money("60.004")
	require.NoError(t, tx.CheckAmounts())
}

func TestTransaction_Validate(t *testing.T) {
	tx := NewTransaction(TypeSale, time.Now())
	tx.Total = money("10.00")
	tx.MarkSettled()
	require.NoError(t, tx.Validate(context.Background()))

	tx.Type = Type(99)
	require.Error(t, tx.Validate(context.Background()))
}

func TestType_Classification(t *testing.T) {
	assert.True(t, TypeSale.IsReceivable())
	assert.True(t, TypeIncome.IsReceivable())
	assert.True(t, TypePurchase.IsPayable())
	assert.True(t, TypeExpense.IsPayable())
	assert.True(t, TypeIncomingPayment.IsPayment())
	assert.True(t, TypeOutgoingPayment.IsPayment())
	assert.False(t, TypeSale.IsPayment())

	assert.True(t, TypeSale.Valid())
	assert.False(t, Type(0).Valid())
	assert.False(t, Type(7).Valid())
}

func TestTransaction_IsCompound(t *testing.T) {
	tx := NewTransaction(TypeIncomingPayment, time.Now())
	assert.False(t, tx.IsCompound())

	tx.IsDeposit = true
	assert.True(t, tx.IsCompound())

	tx.IsDeposit = false
	tx.IsInternalTransfer = true
	assert.True(t, tx.IsCompound())
}
