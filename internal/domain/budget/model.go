// Package budget holds planned amounts per concept for a date range.
// Budgets feed the budget execution report, which compares planned
// amounts against executed ledger totals.
package budget

import (
	"context"
	"time"

	"folio/internal/core/apperror"
	"folio/internal/core/entity"
	"folio/internal/core/id"
	"folio/internal/core/types"
)

// Budget is a plan header with one line per budgeted concept.
type Budget struct {
	entity.BaseDocument

	Name      string    `db:"name" json:"name"`
	DateFrom  time.Time `db:"date_from" json:"dateFrom"`
	DateTo    time.Time `db:"date_to" json:"dateTo"`
	ProjectID *id.ID    `db:"project_id" json:"projectId,omitempty"`

	Lines []BudgetLine `db:"-" json:"lines,omitempty"`
}

// BudgetLine is one planned amount for a concept.
type BudgetLine struct {
	ID        id.ID       `db:"id" json:"id"`
	AccountID id.ID       `db:"account_id" json:"-"`
	BudgetID  id.ID       `db:"budget_id" json:"budgetId"`
	ConceptID id.ID       `db:"concept_id" json:"conceptId"`
	Amount    types.Money `db:"amount" json:"amount"`
	Position  int         `db:"position" json:"position"`
}

// NewBudget creates a budget header for the given period.
func NewBudget(name string, from, to time.Time) *Budget {
	return &Budget{
		BaseDocument: entity.NewBaseDocument(),
		Name:         name,
		DateFrom:     from,
		DateTo:       to,
	}
}

// NewLine creates a budget line bound to the given header.
func NewLine(budgetID, conceptID id.ID, amount types.Money, position int) BudgetLine {
	return BudgetLine{
		ID:        id.New(),
		BudgetID:  budgetID,
		ConceptID: conceptID,
		Amount:    amount,
		Position:  position,
	}
}

// Validate checks the header and all lines.
func (b *Budget) Validate(ctx context.Context) error {
	if b.Name == "" {
		return apperror.NewValidation("budget name is required").
			WithDetail("field", "name")
	}
	if b.DateFrom.IsZero() || b.DateTo.IsZero() {
		return apperror.NewValidation("budget period is required").
			WithDetail("field", "dateFrom/dateTo")
	}
	if b.DateTo.Before(b.DateFrom) {
		return apperror.NewValidation("budget period end precedes its start").
			WithDetail("date_from", b.DateFrom).
			WithDetail("date_to", b.DateTo)
	}
	seen := make(map[id.ID]struct{}, len(b.Lines))
	for i, line := range b.Lines {
		if id.IsNil(line.ConceptID) {
			return apperror.NewValidation("budget line concept is required").
				WithDetail("line", i)
		}
		if line.Amount.IsNegative() {
			return apperror.NewValidation("budget line amount cannot be negative").
				WithDetail("line", i).
				WithDetail("amount", line.Amount.String())
		}
		if _, dup := seen[line.ConceptID]; dup {
			return apperror.NewValidation("budget has duplicate concept lines").
				WithDetail("line", i).
				WithDetail("concept_id", line.ConceptID.String())
		}
		seen[line.ConceptID] = struct{}{}
	}
	return nil
}

// TotalPlanned sums all line amounts.
func (b *Budget) TotalPlanned() types.Money {
	total := types.Zero()
	for _, line := range b.Lines {
		total = total.Add(line.Amount)
	}
	return total
}
