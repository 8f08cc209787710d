package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/domain/catalogs/concept"
)

func createCreditSale(t *testing.T, svc *Service, concepts *memConcepts, total string) *Transaction {
	t.Helper()
	prod := concepts.add(concept.KindProduct)
	tx, err := svc.CreateWithDetails(context.Background(), CreateInput{
		Type:    TypeSale,
		Date:    time.Now(),
		Settled: false,
		Details: []DetailInput{{ConceptID: prod.ID, Total: money(total)}},
	})
	require.NoError(t, err)
	return tx
}

func TestRegisterPayment_PartialMovesBalance(t *testing.T) {
	svc, repo, concepts := newTestService()
	sale := createCreditSale(t, svc, concepts, "100.00")

	payment, err := svc.RegisterPayment(context.Background(), sale.ID, PaymentInput{
		Amount: money("40.00"),
		Date:   time.Now(),
	})
	require.NoError(t, err)

	assert.Equal(t, TypeIncomingPayment, payment.Type)
	assert.True(t, payment.IsSettled())
	require.Len(t, payment.Details, 1)
	require.NotNil(t, payment.Details[0].TransactionPaidID)
	assert.Equal(t, sale.ID, *payment.Details[0].TransactionPaidID)
	assert.Equal(t, concepts.in.ID, payment.Details[0].ConceptID)

	paid := repo.transactions[sale.ID]
	assert.True(t, paid.Payments.Equal(money("40.00")))
	assert.True(t, paid.Balance.Equal(money("60.00")))
	require.NoError(t, paid.CheckAmounts())
}

func TestRegisterPayment_FullSettles(t *testing.T) {
	svc, repo, concepts := newTestService()
	sale := createCreditSale(t, svc, concepts, "100.00")

	_, err := svc.RegisterPayment(context.Background(), sale.ID, PaymentInput{
		Amount: money("100.00"),
	})
	require.NoError(t, err)

	paid := repo.transactions[sale.ID]
	assert.True(t, paid.IsSettled())
	assert.True(t, paid.Balance.IsZero())
}

func TestRegisterPayment_RejectsNonPositive(t *testing.T) {
	svc, _, concepts := newTestService()
	sale := createCreditSale(t, svc, concepts, "100.00")

	for _, amount := range []string{"0", "-5.00"} {
		_, err := svc.RegisterPayment(context.Background(), sale.ID, PaymentInput{
			Amount: money(amount),
		})
		require.Error(t, err, amount)
		assert.True(t, apperror.IsInvalidAmount(err), amount)
	}
}

func TestRegisterPayment_RejectsOverpayment(t *testing.T) {
	svc, repo, concepts := newTestService()
	sale := createCreditSale(t, svc, concepts, "100.00")

	_, err := svc.RegisterPayment(context.Background(), sale.ID, PaymentInput{
		Amount: money("100.01"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidAmount(err))

	// The rejected payment must not touch the paid transaction.
	paid := repo.transactions[sale.ID]
	assert.True(t, paid.Payments.IsZero())
	assert.True(t, paid.Balance.Equal(money("100.00")))
}

func TestRegisterPayment_OutgoingForPayables(t *testing.T) {
	svc, _, concepts := newTestService()
	exp := concepts.add(concept.KindExpense)

	purchase, err := svc.CreateWithDetails(context.Background(), CreateInput{
		Type:    TypePurchase,
		Date:    time.Now(),
		Settled: false,
		Details: []DetailInput{{ConceptID: exp.ID, Total: money("80.00")}},
	})
	require.NoError(t, err)

	payment, err := svc.RegisterPayment(context.Background(), purchase.ID, PaymentInput{
		Amount: money("80.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, TypeOutgoingPayment, payment.Type)
	require.Len(t, payment.Details, 1)
	assert.Equal(t, concepts.out.ID, payment.Details[0].ConceptID)
}

func TestRegisterPayment_RejectsPayingAPayment(t *testing.T) {
	svc, _, concepts := newTestService()
	sale := createCreditSale(t, svc, concepts, "100.00")

	payment, err := svc.RegisterPayment(context.Background(), sale.ID, PaymentInput{
		Amount: money("50.00"),
	})
	require.NoError(t, err)

	_, err = svc.RegisterPayment(context.Background(), payment.ID, PaymentInput{
		Amount: money("10.00"),
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRegisterPayment_RejectsInactive(t *testing.T) {
	svc, _, concepts := newTestService()
	sale := createCreditSale(t, svc, concepts, "100.00")
	require.NoError(t, svc.DeactivateTransaction(context.Background(), sale.ID))

	_, err := svc.RegisterPayment(context.Background(), sale.ID, PaymentInput{
		Amount: money("10.00"),
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestRegisterPayment_UnknownTransaction(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.RegisterPayment(context.Background(), id.New(), PaymentInput{
		Amount: money("10.00"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRegisterPayment_FailedBalanceUpdateRollsBack(t *testing.T) {
	svc, repo, concepts := newRollbackService()
	sale := createCreditSale(t, svc, concepts, "100.00")
	repo.updateErr = errors.New("connection reset")

	_, err := svc.RegisterPayment(context.Background(), sale.ID, PaymentInput{
		Amount: money("40.00"),
	})
	require.Error(t, err)

	// The inserted payment row and its detail must roll back with the
	// failed balance update; only the untouched sale remains.
	require.Len(t, repo.transactions, 1)
	paid := repo.transactions[sale.ID]
	assert.True(t, paid.Payments.IsZero())
	assert.True(t, paid.Balance.Equal(money("100.00")))
	require.Len(t, repo.details, 1)
	assert.Equal(t, sale.ID, repo.details[0].TransactionID)
}

func TestRegisterPayment_FailedDetailInsertRollsBackPayment(t *testing.T) {
	svc, repo, concepts := newRollbackService()
	sale := createCreditSale(t, svc, concepts, "100.00")
	repo.detailsErr = errors.New("insert failed")

	_, err := svc.RegisterPayment(context.Background(), sale.ID, PaymentInput{
		Amount: money("40.00"),
	})
	require.Error(t, err)

	require.Len(t, repo.transactions, 1)
	assert.True(t, repo.transactions[sale.ID].Balance.Equal(money("100.00")))
}

func TestRegisterPayment_SequenceOfPartials(t *testing.T) {
	svc, repo, concepts := newTestService()
	sale := createCreditSale(t, svc, concepts, "100.00")

	for _, amount := range []string{"30.00", "30.00", "40.00"} {
		_, err := svc.RegisterPayment(context.Background(), sale.ID, PaymentInput{
			Amount: money(amount),
		})
		require.NoError(t, err, amount)
	}

	paid := repo.transactions[sale.ID]
	assert.True(t, paid.IsSettled())

	// The balance is exhausted, one more cent is too much.
	_, err := svc.RegisterPayment(context.Background(), sale.ID, PaymentInput{
		Amount: money("0.01"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidAmount(err))
}
