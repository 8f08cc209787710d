package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
)

func TestCreateBankDeposit_LinksLegs(t *testing.T) {
	svc, repo, concepts := newTestService()
	from, to := id.New(), id.New()

	pair, err := svc.CreateBankDeposit(context.Background(), MovementInput{
		Amount:            money("500.00"),
		FromPaymentFormID: from,
		ToPaymentFormID:   to,
	})
	require.NoError(t, err)

	out, in := pair.Outgoing, pair.Incoming
	assert.Equal(t, TypeOutgoingPayment, out.Type)
	assert.Equal(t, TypeIncomingPayment, in.Type)
	assert.True(t, out.IsDeposit)
	assert.True(t, in.IsDeposit)
	assert.False(t, out.IsInternalTransfer)

	require.NotNil(t, in.SourceTransactionID)
	assert.Equal(t, out.ID, *in.SourceTransactionID)
	assert.Nil(t, out.SourceTransactionID)

	// Both legs are self-settled and carry the sentinel concepts.
	assert.True(t, out.IsSettled())
	assert.True(t, in.IsSettled())
	require.Len(t, out.Details, 1)
	require.Len(t, in.Details, 1)
	assert.Equal(t, concepts.out.ID, out.Details[0].ConceptID)
	assert.Equal(t, concepts.in.ID, in.Details[0].ConceptID)

	assert.Len(t, repo.transactions, 2)
}

func TestCreateBankTransfer_SetsTransferFlag(t *testing.T) {
	svc, _, _ := newTestService()

	pair, err := svc.CreateBankTransfer(context.Background(), MovementInput{
		Amount:            money("250.00"),
		FromPaymentFormID: id.New(),
		ToPaymentFormID:   id.New(),
	})
	require.NoError(t, err)

	assert.True(t, pair.Outgoing.IsInternalTransfer)
	assert.True(t, pair.Incoming.IsInternalTransfer)
	assert.False(t, pair.Outgoing.IsDeposit)
}

func TestCreateMovement_RejectsSamePaymentForm(t *testing.T) {
	svc, _, _ := newTestService()
	form := id.New()

	_, err := svc.CreateBankTransfer(context.Background(), MovementInput{
		Amount:            money("100.00"),
		FromPaymentFormID: form,
		ToPaymentFormID:   form,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreateMovement_RejectsNonPositiveAmount(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateBankDeposit(context.Background(), MovementInput{
		Amount:            money("0"),
		FromPaymentFormID: id.New(),
		ToPaymentFormID:   id.New(),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidAmount(err))
}

func TestCreateMovement_FailedIncomingLegLeavesNothing(t *testing.T) {
	svc, repo, _ := newRollbackService()
	repo.failCreateOn = 2 // outgoing leg inserts, incoming leg fails

	_, err := svc.CreateBankTransfer(context.Background(), MovementInput{
		Amount:            money("300.00"),
		FromPaymentFormID: id.New(),
		ToPaymentFormID:   id.New(),
	})
	require.Error(t, err)

	// Both or neither: the outgoing leg must not survive alone.
	assert.Empty(t, repo.transactions)
	assert.Empty(t, repo.details)
}

func TestCreateMovement_FailedDetailsLeaveNothing(t *testing.T) {
	svc, repo, _ := newRollbackService()
	repo.detailsErr = errors.New("insert failed")

	_, err := svc.CreateBankDeposit(context.Background(), MovementInput{
		Amount:            money("300.00"),
		FromPaymentFormID: id.New(),
		ToPaymentFormID:   id.New(),
	})
	require.Error(t, err)

	assert.Empty(t, repo.transactions)
	assert.Empty(t, repo.details)
}

func TestDeactivateMovementGroup_FromEitherLeg(t *testing.T) {
	for _, fromIncoming := range []bool{false, true} {
		svc, repo, _ := newTestService()

		pair, err := svc.CreateBankDeposit(context.Background(), MovementInput{
			Amount:            money("100.00"),
			FromPaymentFormID: id.New(),
			ToPaymentFormID:   id.New(),
		})
		require.NoError(t, err)

		start := pair.Outgoing.ID
		if fromIncoming {
			start = pair.Incoming.ID
		}
		require.NoError(t, svc.DeactivateMovementGroup(context.Background(), start))

		assert.False(t, repo.transactions[pair.Outgoing.ID].IsActive)
		assert.False(t, repo.transactions[pair.Incoming.ID].IsActive)
	}
}

func TestDeactivateMovementGroup_Idempotent(t *testing.T) {
	svc, _, _ := newTestService()

	pair, err := svc.CreateBankDeposit(context.Background(), MovementInput{
		Amount:            money("100.00"),
		FromPaymentFormID: id.New(),
		ToPaymentFormID:   id.New(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateMovementGroup(context.Background(), pair.Outgoing.ID))
	require.NoError(t, svc.DeactivateMovementGroup(context.Background(), pair.Outgoing.ID))
}

func TestDeactivateMovementGroup_RejectsSimpleTransaction(t *testing.T) {
	svc, _, concepts := newTestService()
	sale := createCreditSale(t, svc, concepts, "10.00")

	err := svc.DeactivateMovementGroup(context.Background(), sale.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}
