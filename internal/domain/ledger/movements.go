package ledger

import (
	"context"
	"time"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/core/types"
	"folio/internal/domain/catalogs/concept"
	"folio/pkg/logger"
)

// MovementInput describes a money movement between two payment forms.
type MovementInput struct {
	Amount            types.Money
	Date              time.Time
	FromPaymentFormID id.ID
	ToPaymentFormID   id.ID
	Description       string
}

// MovementPair is the result of a compound movement: two legs linked by
// the incoming leg's sourceTransactionId.
type MovementPair struct {
	Outgoing *Transaction `json:"outgoing"`
	Incoming *Transaction `json:"incoming"`
}

// CreateBankDeposit records a cash deposit: money leaves one payment form
// (the cashbox) and arrives at another (the bank account).
func (s *Service) CreateBankDeposit(ctx context.Context, in MovementInput) (*MovementPair, error) {
	return s.createMovement(ctx, in, true, false)
}

// CreateBankTransfer records a transfer between two payment forms.
func (s *Service) CreateBankTransfer(ctx context.Context, in MovementInput) (*MovementPair, error) {
	return s.createMovement(ctx, in, false, true)
}

// createMovement inserts the two legs of a compound movement in one
// database transaction. The outgoing leg goes first so the incoming leg
// can carry its ID in source_transaction_id.
func (s *Service) createMovement(ctx context.Context, in MovementInput, isDeposit, isTransfer bool) (*MovementPair, error) {
	if !in.Amount.IsPositive() {
		return nil, apperror.NewInvalidAmount("movement amount must be positive").
			WithDetail("amount", in.Amount.String())
	}
	if id.IsNil(in.FromPaymentFormID) || id.IsNil(in.ToPaymentFormID) {
		return nil, apperror.NewValidation("both payment forms are required").
			WithDetail("field", "fromPaymentFormId/toPaymentFormId")
	}
	if in.FromPaymentFormID == in.ToPaymentFormID {
		return nil, apperror.NewValidation("source and target payment forms must differ").
			WithDetail("payment_form_id", in.FromPaymentFormID.String())
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	outConcept, err := s.concepts.SystemPaymentConcept(ctx, concept.PaymentOutgoing)
	if err != nil {
		return nil, err
	}
	inConcept, err := s.concepts.SystemPaymentConcept(ctx, concept.PaymentIncoming)
	if err != nil {
		return nil, err
	}

	newLeg := func(t Type, formID id.ID) *Transaction {
		leg := NewTransaction(t, in.Date)
		leg.PaymentFormID = &formID
		leg.Description = in.Description
		leg.Total = in.Amount
		leg.MarkSettled()
		leg.IsDeposit = isDeposit
		leg.IsInternalTransfer = isTransfer
		return leg
	}

	outgoing := newLeg(TypeOutgoingPayment, in.FromPaymentFormID)
	incoming := newLeg(TypeIncomingPayment, in.ToPaymentFormID)
	incoming.SourceTransactionID = &outgoing.ID

	if err := s.assignReference(ctx, outgoing, referencePrefix); err != nil {
		return nil, err
	}
	if err := s.assignReference(ctx, incoming, referencePrefix); err != nil {
		return nil, err
	}

	outDetail := NewDetail(outgoing.ID, outConcept.ID, in.Amount)
	outDetail.Description = in.Description
	inDetail := NewDetail(incoming.ID, inConcept.ID, in.Amount)
	inDetail.Description = in.Description

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Outgoing leg first: the incoming leg references it.
		if err := s.repo.Create(ctx, outgoing); err != nil {
			return apperror.NewPersistence("create outgoing leg", err)
		}
		if err := s.repo.Create(ctx, incoming); err != nil {
			return apperror.NewPersistence("create incoming leg", err)
		}
		if err := s.repo.CreateDetails(ctx, []TransactionDetail{outDetail, inDetail}); err != nil {
			return apperror.NewPersistence("create movement details", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	outgoing.Details = []TransactionDetail{outDetail}
	incoming.Details = []TransactionDetail{inDetail}

	s.logChange(ctx, outgoing.ID, "movement", map[string]any{
		"incoming_leg_id": incoming.ID.String(),
		"amount":          in.Amount.String(),
		"deposit":         isDeposit,
	})
	logger.Info(ctx, "compound movement created",
		"outgoing_id", outgoing.ID.String(),
		"incoming_id", incoming.ID.String(),
		"amount", in.Amount.String(),
	)

	return &MovementPair{Outgoing: outgoing, Incoming: incoming}, nil
}

// DeactivateMovementGroup deactivates both legs of a compound movement.
// transactionID may identify either leg; the pair is resolved through
// source_transaction_id and deactivated atomically: both or neither.
func (s *Service) DeactivateMovementGroup(ctx context.Context, transactionID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		leg, err := s.repo.GetForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if !leg.IsCompound() {
			return apperror.NewValidation("transaction is not part of a compound movement").
				WithDetail("transaction_id", transactionID.String())
		}

		var other *Transaction
		if leg.SourceTransactionID != nil {
			// We hold the incoming leg; lock the outgoing one.
			other, err = s.repo.GetForUpdate(ctx, *leg.SourceTransactionID)
		} else {
			// We hold the outgoing leg; find and lock the incoming one.
			other, err = s.repo.GetBySource(ctx, leg.ID)
			if err == nil {
				other, err = s.repo.GetForUpdate(ctx, other.ID)
			}
		}
		if err != nil {
			return err
		}

		if !leg.IsActive && !other.IsActive {
			return nil
		}

		if err := s.repo.SetActive(ctx, leg.ID, false); err != nil {
			return apperror.NewPersistence("deactivate movement leg", err)
		}
		if err := s.repo.SetActive(ctx, other.ID, false); err != nil {
			return apperror.NewPersistence("deactivate movement leg", err)
		}

		s.logChange(ctx, leg.ID, "deactivate_group", map[string]any{
			"paired_leg_id": other.ID.String(),
		})
		return nil
	})
}
