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

// PaymentInput describes a payment registered against an open balance.
type PaymentInput struct {
	Amount          types.Money
	Date            time.Time
	PaymentFormID   *id.ID
	PaymentMethodID *id.ID
	Description     string
}

// RegisterPayment records a payment against the open balance of paidID.
//
// The whole sequence runs in one database transaction with the paid row
// locked FOR UPDATE: insert the payment transaction, insert its detail
// tagged with the account's system payment concept, move the amount from
// balance to payments on the paid row. Any failure rolls everything back,
// so a payment row can never exist without the matching balance update.
func (s *Service) RegisterPayment(ctx context.Context, paidID id.ID, in PaymentInput) (*Transaction, error) {
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	var payment *Transaction
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		paid, err := s.repo.GetForUpdate(ctx, paidID)
		if err != nil {
			return err
		}

		if !paid.IsActive {
			return apperror.NewConflict("cannot register payment on inactive transaction").
				WithDetail("transaction_id", paidID.String())
		}
		if paid.Type.IsPayment() {
			return apperror.NewValidation("payments cannot be paid").
				WithDetail("transaction_id", paidID.String())
		}

		if !in.Amount.IsPositive() {
			return apperror.NewInvalidAmount("payment amount must be positive").
				WithDetail("amount", in.Amount.String())
		}
		// Strict ceiling: even a one-cent overshoot would persist a
		// negative balance, so the epsilon tolerance does not apply here.
		if in.Amount.GreaterThan(paid.Balance) {
			return apperror.NewInvalidAmount("payment amount exceeds open balance").
				WithDetail("amount", in.Amount.String()).
				WithDetail("balance", paid.Balance.String())
		}

		direction := concept.PaymentIncoming
		paymentType := TypeIncomingPayment
		if paid.Type.IsPayable() || paid.IsInternalObligation {
			direction = concept.PaymentOutgoing
			paymentType = TypeOutgoingPayment
		}

		sentinel, err := s.concepts.SystemPaymentConcept(ctx, direction)
		if err != nil {
			return err
		}

		payment = NewTransaction(paymentType, in.Date)
		payment.PersonID = paid.PersonID
		payment.ProjectID = paid.ProjectID
		payment.PaymentFormID = in.PaymentFormID
		payment.PaymentMethodID = in.PaymentMethodID
		payment.CurrencyID = paid.CurrencyID
		payment.Description = in.Description
		payment.Total = in.Amount
		payment.MarkSettled()

		if err := s.assignReference(ctx, payment, referencePrefix); err != nil {
			return err
		}

		detail := NewDetail(payment.ID, sentinel.ID, in.Amount)
		detail.Description = in.Description
		detail.TransactionPaidID = &paidID

		if err := s.repo.Create(ctx, payment); err != nil {
			return apperror.NewPersistence("create payment", err)
		}
		if err := s.repo.CreateDetails(ctx, []TransactionDetail{detail}); err != nil {
			return apperror.NewPersistence("create payment detail", err)
		}

		paid.ApplyPayment(in.Amount)
		paid.Touch()
		if err := paid.CheckAmounts(); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, paid); err != nil {
			return err
		}

		payment.Details = []TransactionDetail{detail}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logChange(ctx, payment.ID, "payment", map[string]any{
		"paid_transaction_id": paidID.String(),
		"amount":              in.Amount.String(),
	})
	logger.Info(ctx, "payment registered",
		"payment_id", payment.ID.String(),
		"paid_transaction_id", paidID.String(),
		"amount", in.Amount.String(),
	)

	return payment, nil
}
