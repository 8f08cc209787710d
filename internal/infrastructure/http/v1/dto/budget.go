package dto

import (
	"time"

	"folio/internal/core/id"
	"folio/internal/core/types"
	"folio/internal/domain/budget"
)

// BudgetLineRequest is one planned amount for a concept.
type BudgetLineRequest struct {
	ConceptID id.ID       `json:"conceptId" binding:"required"`
	Amount    types.Money `json:"amount"`
}

// BudgetRequest is the request body for creating or updating a budget.
type BudgetRequest struct {
	Name      string              `json:"name" binding:"required"`
	DateFrom  time.Time           `json:"dateFrom" binding:"required"`
	DateTo    time.Time           `json:"dateTo" binding:"required"`
	ProjectID *id.ID              `json:"projectId"`
	Lines     []BudgetLineRequest `json:"lines"`
}

// ToInput converts the DTO to the service input.
func (r *BudgetRequest) ToInput() budget.CreateInput {
	in := budget.CreateInput{
		Name:      r.Name,
		DateFrom:  r.DateFrom,
		DateTo:    r.DateTo,
		ProjectID: r.ProjectID,
	}
	for _, line := range r.Lines {
		in.Lines = append(in.Lines, budget.LineInput{
			ConceptID: line.ConceptID,
			Amount:    line.Amount,
		})
	}
	return in
}
