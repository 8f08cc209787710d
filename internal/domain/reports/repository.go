package reports

import (
	"context"

	"folio/internal/core/id"
	"folio/internal/domain/budget"
)

// Repository reads ledger rows for aggregation. Implementations return
// row-level data; all summing happens in the service.
type Repository interface {
	// PaymentFormFlows returns all active transactions posted to the
	// payment form.
	PaymentFormFlows(ctx context.Context, paymentFormID id.ID) ([]FlowRow, error)

	// ConceptExecutionRows returns detail lines of active transactions
	// matching the filter, joined with the concept's expense flag.
	ConceptExecutionRows(ctx context.Context, filter ExecutionFilter) ([]ExecutionRow, error)
}

// BudgetProvider loads the budget header with its lines.
type BudgetProvider interface {
	GetByID(ctx context.Context, budgetID id.ID) (*budget.Budget, error)
}
