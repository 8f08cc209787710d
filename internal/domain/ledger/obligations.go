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

// ObligationInput describes an internal obligation: a payable the business
// owes itself or its owner, with no counterparty person.
type ObligationInput struct {
	Date        time.Time
	Total       types.Money
	ConceptID   id.ID
	ProjectID   *id.ID
	Description string
}

// CreateInternalObligation records a purchase-type payable with no person.
// Obligations always start on credit: balance = total, payments = 0.
func (s *Service) CreateInternalObligation(ctx context.Context, in ObligationInput) (*Transaction, error) {
	if !in.Total.IsPositive() {
		return nil, apperror.NewInvalidAmount("obligation total must be positive").
			WithDetail("total", in.Total.String())
	}
	if id.IsNil(in.ConceptID) {
		return nil, apperror.NewValidation("obligation concept is required").
			WithDetail("field", "conceptId")
	}
	c, err := s.concepts.GetByID(ctx, in.ConceptID)
	if err != nil {
		return nil, err
	}
	if c.Kind != concept.KindPayable && c.Kind != concept.KindExpense {
		return nil, apperror.NewValidation("obligation concept must be a payable or expense").
			WithDetail("concept_id", in.ConceptID.String()).
			WithDetail("kind", string(c.Kind))
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	t := NewTransaction(TypePurchase, in.Date)
	t.IsInternalObligation = true
	t.ProjectID = in.ProjectID
	t.Description = in.Description
	t.Total = in.Total
	t.MarkCredit()

	if err := s.assignReference(ctx, t, obligationPrefix); err != nil {
		return nil, err
	}

	detail := NewDetail(t.ID, in.ConceptID, in.Total)
	detail.Description = in.Description

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, t); err != nil {
			return apperror.NewPersistence("create obligation", err)
		}
		if err := s.repo.CreateDetails(ctx, []TransactionDetail{detail}); err != nil {
			return apperror.NewPersistence("create obligation detail", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.Details = []TransactionDetail{detail}
	s.logChange(ctx, t.ID, "create_obligation", map[string]any{
		"total": t.Total.String(),
	})
	logger.Info(ctx, "internal obligation created",
		"transaction_id", t.ID.String(),
		"reference", t.Reference,
		"total", t.Total.String(),
	)

	return t, nil
}

// UpdateInternalObligation rewrites the obligation total. The new total may
// not drop below the amount already paid; the balance is recomputed so the
// total = payments + balance invariant keeps holding.
func (s *Service) UpdateInternalObligation(ctx context.Context, obligationID id.ID, newTotal types.Money, description string) (*Transaction, error) {
	if !newTotal.IsPositive() {
		return nil, apperror.NewInvalidAmount("obligation total must be positive").
			WithDetail("total", newTotal.String())
	}

	var t *Transaction
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		t, err = s.repo.GetForUpdate(ctx, obligationID)
		if err != nil {
			return err
		}
		if !t.IsInternalObligation {
			return apperror.NewValidation("transaction is not an internal obligation").
				WithDetail("transaction_id", obligationID.String())
		}
		if !t.IsActive {
			return apperror.NewConflict("inactive obligations cannot be updated").
				WithDetail("transaction_id", obligationID.String())
		}
		// Strict floor, mirroring the payment ceiling: a total even one
		// cent below registered payments would leave a negative balance.
		if newTotal.LessThan(t.Payments) {
			return apperror.NewValidation("obligation total cannot drop below registered payments").
				WithDetail("total", newTotal.String()).
				WithDetail("payments", t.Payments.String())
		}

		t.Total = newTotal
		t.Balance = newTotal.Sub(t.Payments)
		if description != "" {
			t.Description = description
		}
		t.Touch()
		if err := t.CheckAmounts(); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, t); err != nil {
			return err
		}

		// Keep the single detail line in sync with the header.
		details, err := s.repo.GetDetails(ctx, obligationID)
		if err != nil {
			return err
		}
		if len(details) == 1 {
			if err := s.repo.UpdateDetailTotal(ctx, details[0].ID, newTotal); err != nil {
				return apperror.NewPersistence("update obligation detail", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logChange(ctx, obligationID, "update_obligation", map[string]any{
		"total": newTotal.String(),
	})
	return t, nil
}
