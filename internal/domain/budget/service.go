package budget

import (
	"context"
	"time"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/core/tx"
	"folio/internal/core/types"
	"folio/internal/domain"
	"folio/pkg/logger"
)

// ConceptChecker verifies budgeted concepts exist.
type ConceptChecker interface {
	Exists(ctx context.Context, conceptID id.ID) (bool, error)
}

// Service manages budget headers and their lines atomically.
type Service struct {
	repo      Repository
	concepts  ConceptChecker
	txManager tx.Manager
}

func NewService(repo Repository, concepts ConceptChecker, txManager tx.Manager) *Service {
	return &Service{repo: repo, concepts: concepts, txManager: txManager}
}

// LineInput describes one planned amount.
type LineInput struct {
	ConceptID id.ID
	Amount    types.Money
}

// CreateInput describes a budget to create.
type CreateInput struct {
	Name      string
	DateFrom  time.Time
	DateTo    time.Time
	ProjectID *id.ID
	Lines     []LineInput
}

// Create inserts the header and all lines in one database transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Budget, error) {
	b := NewBudget(in.Name, in.DateFrom, in.DateTo)
	b.ProjectID = in.ProjectID
	b.Lines = make([]BudgetLine, 0, len(in.Lines))
	for i, line := range in.Lines {
		b.Lines = append(b.Lines, NewLine(b.ID, line.ConceptID, line.Amount, i))
	}

	if err := b.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.checkConcepts(ctx, b.Lines); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, b); err != nil {
			return apperror.NewPersistence("create budget", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "budget created",
		"budget_id", b.ID.String(),
		"name", b.Name,
		"lines", len(b.Lines),
	)
	return b, nil
}

// Update rewrites the header and replaces the full line set.
func (s *Service) Update(ctx context.Context, budgetID id.ID, in CreateInput) (*Budget, error) {
	var b *Budget
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.repo.GetForUpdate(ctx, budgetID)
		if err != nil {
			return err
		}

		b.Name = in.Name
		b.DateFrom = in.DateFrom
		b.DateTo = in.DateTo
		b.ProjectID = in.ProjectID
		b.Lines = make([]BudgetLine, 0, len(in.Lines))
		for i, line := range in.Lines {
			b.Lines = append(b.Lines, NewLine(b.ID, line.ConceptID, line.Amount, i))
		}
		b.Touch()

		if err := b.Validate(ctx); err != nil {
			return err
		}
		if err := s.checkConcepts(ctx, b.Lines); err != nil {
			return err
		}
		return s.repo.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetByID returns a budget with its lines.
func (s *Service) GetByID(ctx context.Context, budgetID id.ID) (*Budget, error) {
	b, err := s.repo.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.GetLines(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	b.Lines = lines
	return b, nil
}

// List returns budgets matching the filter, without lines.
func (s *Service) List(ctx context.Context, filter Filter) (domain.ListResult[*Budget], error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.repo.List(ctx, filter)
}

// SetDeletionMark soft-deletes or restores a budget.
func (s *Service) SetDeletionMark(ctx context.Context, budgetID id.ID, mark bool) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.SetDeletionMark(ctx, budgetID, mark)
	})
}

func (s *Service) checkConcepts(ctx context.Context, lines []BudgetLine) error {
	for i, line := range lines {
		exists, err := s.concepts.Exists(ctx, line.ConceptID)
		if err != nil {
			return apperror.NewPersistence("check concept", err)
		}
		if !exists {
			return apperror.NewNotFound("concept", line.ConceptID.String()).
				WithDetail("line", i)
		}
	}
	return nil
}
