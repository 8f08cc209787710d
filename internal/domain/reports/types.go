// Package reports aggregates ledger data into read models: bank
// reconciliation balances and budget execution variance. Everything here
// is recomputed from scratch on every call; there is no cache.
package reports

import (
	"time"

	"folio/internal/core/id"
	"folio/internal/core/types"
)

// --- Bank reconciliation ---

// ReconciliationFilter selects the payment form and statement window.
type ReconciliationFilter struct {
	PaymentFormID id.ID
	DateFrom      time.Time
	DateTo        time.Time
}

// BankReconciliation is the aggregated view used to match a payment form
// against a bank statement.
type BankReconciliation struct {
	PaymentFormID id.ID     `json:"paymentFormId"`
	DateFrom      time.Time `json:"dateFrom"`
	DateTo        time.Time `json:"dateTo"`

	// CurrentBalance sums signed flows over all active transactions
	// posted to the form.
	CurrentBalance types.Money `json:"currentBalance"`

	// PreviousBalance sums flows reconciled strictly before the window.
	PreviousBalance types.Money `json:"previousBalance"`

	// ReconciledBalance sums flows reconciled within the window.
	ReconciledBalance types.Money `json:"reconciledBalance"`

	TransactionCount int `json:"transactionCount"`
}

// FlowRow is one active transaction posted to a payment form, as read
// from the store. Aggregation happens in the service so the sign
// convention stays in the ledger package.
type FlowRow struct {
	Type         int16       `db:"type"`
	Total        types.Money `db:"total"`
	IsReconciled bool        `db:"is_reconciled"`
	ReconciledAt *time.Time  `db:"reconciled_at"`
}

// --- Budget execution ---

// ExecutionOverrides optionally narrows the execution window beyond the
// budget's own period.
type ExecutionOverrides struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	ProjectID *id.ID
}

// ExecutionFilter is the resolved query the repository runs.
type ExecutionFilter struct {
	ConceptIDs []id.ID
	DateFrom   time.Time
	DateTo     time.Time
	ProjectID  *id.ID
}

// ExecutionRow is one detail line of an active transaction matching the
// execution filter.
type ExecutionRow struct {
	ConceptID id.ID       `db:"concept_id"`
	Total     types.Money `db:"total"`
	IsExpense bool        `db:"is_expense"`
}

// ExecutionLine compares one budgeted concept against executed totals.
type ExecutionLine struct {
	ConceptID id.ID       `json:"conceptId"`
	Budgeted  types.Money `json:"budgeted"`
	Executed  types.Money `json:"executed"`
	Variance  types.Money `json:"variance"`
}

// BudgetExecution is the full planned-versus-executed comparison.
type BudgetExecution struct {
	BudgetID  id.ID     `json:"budgetId"`
	Name      string    `json:"name"`
	DateFrom  time.Time `json:"dateFrom"`
	DateTo    time.Time `json:"dateTo"`
	ProjectID *id.ID    `json:"projectId,omitempty"`

	Lines []ExecutionLine `json:"lines"`

	TotalBudgeted types.Money `json:"totalBudgeted"`
	TotalExecuted types.Money `json:"totalExecuted"`
	TotalVariance types.Money `json:"totalVariance"`
}
