package ledger

import (
	"context"
	"fmt"
	"time"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/core/tx"
	"folio/internal/core/types"
	"folio/internal/domain"
	"folio/pkg/logger"
	"folio/pkg/numerator"
)

// referencePrefix numbers regular transactions; obligations get their own
// series so accountants can spot them in listings.
const (
	referencePrefix  = "TRX"
	obligationPrefix = "OBL"
)

// Service implements the transaction composer, payment registrar, compound
// movement builder and obligation manager over one repository.
type Service struct {
	repo      Repository
	concepts  ConceptProvider
	txManager tx.Manager
	numerator *numerator.Service
	audit     AuditLogger
}

// NewService creates a new ledger service. audit may be nil.
func NewService(repo Repository, concepts ConceptProvider, txManager tx.Manager, num *numerator.Service, audit AuditLogger) *Service {
	return &Service{
		repo:      repo,
		concepts:  concepts,
		txManager: txManager,
		numerator: num,
		audit:     audit,
	}
}

// CreateInput describes a transaction to compose.
type CreateInput struct {
	Type Type
	Date time.Time

	PersonID        *id.ID
	ProjectID       *id.ID
	PaymentFormID   *id.ID
	PaymentMethodID *id.ID
	CurrencyID      *id.ID

	Description string

	// Settled controls the initial monetary state: settled transactions
	// start with payments = total, credit transactions with balance = total.
	Settled bool

	Details []DetailInput
}

// DetailInput describes one detail line.
type DetailInput struct {
	ConceptID   id.ID
	Description string
	Quantity    types.Money
	UnitAmount  types.Money
	Total       types.Money
}

// CreateWithDetails composes a transaction with at least one detail line.
// The header and all lines are inserted in one database transaction.
func (s *Service) CreateWithDetails(ctx context.Context, in CreateInput) (*Transaction, error) {
	if len(in.Details) == 0 {
		return nil, apperror.NewValidation("transaction requires at least one detail").
			WithDetail("field", "details")
	}

	t := NewTransaction(in.Type, in.Date)
	t.PersonID = in.PersonID
	t.ProjectID = in.ProjectID
	t.PaymentFormID = in.PaymentFormID
	t.PaymentMethodID = in.PaymentMethodID
	t.CurrencyID = in.CurrencyID
	t.Description = in.Description

	details, total, err := s.buildDetails(ctx, t.ID, in.Details)
	if err != nil {
		return nil, err
	}

	t.Total = total
	if in.Settled {
		t.MarkSettled()
	} else {
		t.MarkCredit()
	}

	if err := t.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.assignReference(ctx, t, referencePrefix); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, t); err != nil {
			return apperror.NewPersistence("create transaction", err)
		}
		if err := s.repo.CreateDetails(ctx, details); err != nil {
			return apperror.NewPersistence("create transaction details", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.Details = details
	s.logChange(ctx, t.ID, "create", map[string]any{
		"type":  t.Type.String(),
		"total": t.Total.String(),
	})
	logger.Info(ctx, "transaction created",
		"transaction_id", t.ID.String(),
		"reference", t.Reference,
		"type", t.Type.String(),
	)

	return t, nil
}

// GetByID returns a transaction with its detail lines.
func (s *Service) GetByID(ctx context.Context, transactionID id.ID) (*Transaction, error) {
	t, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	details, err := s.repo.GetDetails(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	t.Details = details
	return t, nil
}

// List returns transactions matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) (domain.ListResult[*Transaction], error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.repo.List(ctx, filter)
}

// DeactivateTransaction soft-deactivates a simple transaction.
// Compound movement legs must go through DeactivateMovementGroup so the
// pair never diverges.
func (s *Service) DeactivateTransaction(ctx context.Context, transactionID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := s.repo.GetForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if t.IsCompound() {
			return apperror.NewConflict("compound movement legs are deactivated as a group").
				WithDetail("transaction_id", transactionID.String())
		}
		if !t.IsActive {
			return nil
		}
		if err := s.repo.SetActive(ctx, transactionID, false); err != nil {
			return apperror.NewPersistence("deactivate transaction", err)
		}
		s.logChange(ctx, transactionID, "deactivate", nil)
		return nil
	})
}

// ReconcileTransaction marks a transaction as matched against a bank
// statement. The transition is one-way: reconciling twice is a conflict.
func (s *Service) ReconcileTransaction(ctx context.Context, transactionID id.ID, reconciledAt time.Time) error {
	if reconciledAt.IsZero() {
		reconciledAt = time.Now().UTC()
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := s.repo.GetForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if !t.IsActive {
			return apperror.NewConflict("inactive transactions cannot be reconciled").
				WithDetail("transaction_id", transactionID.String())
		}
		if t.IsReconciled {
			return apperror.NewConflict("transaction is already reconciled").
				WithDetail("transaction_id", transactionID.String()).
				WithDetail("reconciled_at", t.ReconciledAt)
		}

		t.IsReconciled = true
		t.ReconciledAt = &reconciledAt
		t.Touch()

		if err := s.repo.Update(ctx, t); err != nil {
			return err
		}
		s.logChange(ctx, transactionID, "reconcile", map[string]any{
			"reconciled_at": reconciledAt,
		})
		return nil
	})
}

// --- internals ---

// buildDetails validates concepts, derives line totals and sums the header
// total. A line with zero total but quantity and unit amount set gets
// total = quantity * unit_amount.
func (s *Service) buildDetails(ctx context.Context, transactionID id.ID, inputs []DetailInput) ([]TransactionDetail, types.Money, error) {
	details := make([]TransactionDetail, 0, len(inputs))
	total := types.Zero()

	for i, in := range inputs {
		if id.IsNil(in.ConceptID) {
			return nil, total, apperror.NewValidation("detail concept is required").
				WithDetail("line", i)
		}
		exists, err := s.concepts.Exists(ctx, in.ConceptID)
		if err != nil {
			return nil, total, apperror.NewPersistence("check concept", err)
		}
		if !exists {
			return nil, total, apperror.NewNotFound("concept", in.ConceptID.String()).
				WithDetail("line", i)
		}

		lineTotal := in.Total
		if lineTotal.IsZero() && !in.Quantity.IsZero() {
			lineTotal = in.Quantity.Mul(in.UnitAmount)
		}

		d := NewDetail(transactionID, in.ConceptID, lineTotal)
		d.Description = in.Description
		if !in.Quantity.IsZero() {
			d.Quantity = in.Quantity
			d.UnitAmount = in.UnitAmount
		}
		details = append(details, d)
		total = total.Add(lineTotal)
	}

	return details, total, nil
}

// assignReference fetches the next number in the account's series.
func (s *Service) assignReference(ctx context.Context, t *Transaction, prefix string) error {
	if s.numerator == nil {
		return nil
	}
	ref, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(prefix), nil, t.Date)
	if err != nil {
		return fmt.Errorf("assign reference: %w", err)
	}
	t.Reference = ref
	return nil
}

// logChange records an audit entry, best-effort.
func (s *Service) logChange(ctx context.Context, transactionID id.ID, action string, changes map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogChange(ctx, "transaction", transactionID, action, changes); err != nil {
		logger.Warn(ctx, "audit log failed",
			"transaction_id", transactionID.String(),
			"action", action,
			"error", err,
		)
	}
}
