package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/core/apperror"
	"folio/internal/domain/catalogs/concept"
)

func createObligation(t *testing.T, svc *Service, concepts *memConcepts, total string) *Transaction {
	t.Helper()
	payable := concepts.add(concept.KindPayable)
	obl, err := svc.CreateInternalObligation(context.Background(), ObligationInput{
		Date:      time.Now(),
		Total:     money(total),
		ConceptID: payable.ID,
	})
	require.NoError(t, err)
	return obl
}

func TestCreateInternalObligation_StartsOnCredit(t *testing.T) {
	svc, _, concepts := newTestService()

	obl := createObligation(t, svc, concepts, "1200.00")

	assert.Equal(t, TypePurchase, obl.Type)
	assert.True(t, obl.IsInternalObligation)
	assert.True(t, obl.Payments.IsZero())
	assert.True(t, obl.Balance.Equal(money("1200.00")))
	assert.Nil(t, obl.PersonID)
	require.NoError(t, obl.CheckAmounts())
}

func TestCreateInternalObligation_RejectsNonPositiveTotal(t *testing.T) {
	svc, _, concepts := newTestService()
	payable := concepts.add(concept.KindPayable)

	_, err := svc.CreateInternalObligation(context.Background(), ObligationInput{
		Total:     money("-10"),
		ConceptID: payable.ID,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidAmount(err))
}

func TestCreateInternalObligation_RejectsWrongConceptKind(t *testing.T) {
	svc, _, concepts := newTestService()
	prod := concepts.add(concept.KindProduct)

	_, err := svc.CreateInternalObligation(context.Background(), ObligationInput{
		Total:     money("100"),
		ConceptID: prod.ID,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestUpdateInternalObligation_RecomputesBalance(t *testing.T) {
	svc, _, concepts := newTestService()
	obl := createObligation(t, svc, concepts, "1000.00")

	_, err := svc.RegisterPayment(context.Background(), obl.ID, PaymentInput{
		Amount: money("300.00"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateInternalObligation(context.Background(), obl.ID, money("800.00"), "")
	require.NoError(t, err)

	assert.True(t, updated.Total.Equal(money("800.00")))
	assert.True(t, updated.Payments.Equal(money("300.00")))
	assert.True(t, updated.Balance.Equal(money("500.00")))
	require.NoError(t, updated.CheckAmounts())
}

func TestUpdateInternalObligation_FloorAtPayments(t *testing.T) {
	svc, _, concepts := newTestService()
	obl := createObligation(t, svc, concepts, "1000.00")

	_, err := svc.RegisterPayment(context.Background(), obl.ID, PaymentInput{
		Amount: money("300.00"),
	})
	require.NoError(t, err)

	// Below the paid amount: rejected.
	_, err = svc.UpdateInternalObligation(context.Background(), obl.ID, money("299.99"), "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	// Exactly the paid amount: allowed, the obligation becomes settled.
	updated, err := svc.UpdateInternalObligation(context.Background(), obl.ID, money("300.00"), "")
	require.NoError(t, err)
	assert.True(t, updated.Balance.IsZero())
	assert.True(t, updated.IsSettled())
}

func TestUpdateInternalObligation_SyncsSingleDetail(t *testing.T) {
	svc, repo, concepts := newTestService()
	obl := createObligation(t, svc, concepts, "1000.00")

	_, err := svc.UpdateInternalObligation(context.Background(), obl.ID, money("750.00"), "revised")
	require.NoError(t, err)

	details, err := repo.GetDetails(context.Background(), obl.ID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.True(t, details[0].Total.Equal(money("750.00")))
}

func TestUpdateInternalObligation_RejectsNonObligation(t *testing.T) {
	svc, _, concepts := newTestService()
	sale := createCreditSale(t, svc, concepts, "100.00")

	_, err := svc.UpdateInternalObligation(context.Background(), sale.ID, money("200.00"), "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestUpdateInternalObligation_PaymentsUseOutgoingDirection(t *testing.T) {
	svc, _, concepts := newTestService()
	obl := createObligation(t, svc, concepts, "500.00")

	payment, err := svc.RegisterPayment(context.Background(), obl.ID, PaymentInput{
		Amount: money("500.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, TypeOutgoingPayment, payment.Type)
}
