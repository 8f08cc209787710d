package reports

import (
	"context"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/core/types"
	"folio/internal/domain/ledger"
)

// Service computes reconciliation and budget execution read models.
type Service struct {
	repo    Repository
	budgets BudgetProvider
}

func NewService(repo Repository, budgets BudgetProvider) *Service {
	return &Service{repo: repo, budgets: budgets}
}

// BankReconciliation aggregates the payment form's flows into the three
// reconciliation balances. An empty result set yields zeros.
func (s *Service) BankReconciliation(ctx context.Context, filter ReconciliationFilter) (*BankReconciliation, error) {
	if id.IsNil(filter.PaymentFormID) {
		return nil, apperror.NewValidation("payment form is required").
			WithDetail("field", "paymentFormId")
	}
	if filter.DateFrom.IsZero() || filter.DateTo.IsZero() {
		return nil, apperror.NewValidation("reconciliation window is required").
			WithDetail("field", "dateFrom/dateTo")
	}
	if filter.DateTo.Before(filter.DateFrom) {
		return nil, apperror.NewValidation("reconciliation window end precedes its start").
			WithDetail("date_from", filter.DateFrom).
			WithDetail("date_to", filter.DateTo)
	}

	rows, err := s.repo.PaymentFormFlows(ctx, filter.PaymentFormID)
	if err != nil {
		return nil, apperror.NewPersistence("load payment form flows", err)
	}

	result := &BankReconciliation{
		PaymentFormID:     filter.PaymentFormID,
		DateFrom:          filter.DateFrom,
		DateTo:            filter.DateTo,
		CurrentBalance:    types.Zero(),
		PreviousBalance:   types.Zero(),
		ReconciledBalance: types.Zero(),
		TransactionCount:  len(rows),
	}

	for _, row := range rows {
		flow := ledger.SignedFlow(ledger.Type(row.Type), row.Total)
		result.CurrentBalance = result.CurrentBalance.Add(flow)

		if !row.IsReconciled || row.ReconciledAt == nil {
			continue
		}
		switch {
		case row.ReconciledAt.Before(filter.DateFrom):
			result.PreviousBalance = result.PreviousBalance.Add(flow)
		case !row.ReconciledAt.After(filter.DateTo):
			result.ReconciledBalance = result.ReconciledBalance.Add(flow)
		}
	}

	return result, nil
}

// BudgetExecution compares each budget line's planned amount against the
// executed total for its concept. Expense concepts are sign-normalized so
// the comparison is always "spent vs planned" in positive terms.
func (s *Service) BudgetExecution(ctx context.Context, budgetID id.ID, overrides ExecutionOverrides) (*BudgetExecution, error) {
	b, err := s.budgets.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	filter := ExecutionFilter{
		DateFrom:  b.DateFrom,
		DateTo:    b.DateTo,
		ProjectID: b.ProjectID,
	}
	if overrides.DateFrom != nil {
		filter.DateFrom = *overrides.DateFrom
	}
	if overrides.DateTo != nil {
		filter.DateTo = *overrides.DateTo
	}
	if overrides.ProjectID != nil {
		filter.ProjectID = overrides.ProjectID
	}
	if filter.DateTo.Before(filter.DateFrom) {
		return nil, apperror.NewValidation("execution window end precedes its start").
			WithDetail("date_from", filter.DateFrom).
			WithDetail("date_to", filter.DateTo)
	}

	filter.ConceptIDs = make([]id.ID, 0, len(b.Lines))
	for _, line := range b.Lines {
		filter.ConceptIDs = append(filter.ConceptIDs, line.ConceptID)
	}

	executed := make(map[id.ID]types.Money, len(b.Lines))
	if len(filter.ConceptIDs) > 0 {
		rows, err := s.repo.ConceptExecutionRows(ctx, filter)
		if err != nil {
			return nil, apperror.NewPersistence("load execution rows", err)
		}
		for _, row := range rows {
			amount := ledger.NormalizedAmount(row.Total, row.IsExpense)
			executed[row.ConceptID] = executed[row.ConceptID].Add(amount)
		}
	}

	result := &BudgetExecution{
		BudgetID:      b.ID,
		Name:          b.Name,
		DateFrom:      filter.DateFrom,
		DateTo:        filter.DateTo,
		ProjectID:     filter.ProjectID,
		Lines:         make([]ExecutionLine, 0, len(b.Lines)),
		TotalBudgeted: types.Zero(),
		TotalExecuted: types.Zero(),
		TotalVariance: types.Zero(),
	}

	for _, line := range b.Lines {
		spent, ok := executed[line.ConceptID]
		if !ok {
			spent = types.Zero()
		}
		variance := line.Amount.Sub(spent)
		result.Lines = append(result.Lines, ExecutionLine{
			ConceptID: line.ConceptID,
			Budgeted:  line.Amount,
			Executed:  spent,
			Variance:  variance,
		})
		result.TotalBudgeted = result.TotalBudgeted.Add(line.Amount)
		result.TotalExecuted = result.TotalExecuted.Add(spent)
		result.TotalVariance = result.TotalVariance.Add(variance)
	}

	return result, nil
}
