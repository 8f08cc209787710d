package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/core/types"
	"folio/internal/domain/budget"
	"folio/internal/domain/ledger"
)

type memRepo struct {
	flows map[id.ID][]FlowRow
	rows  []ExecutionRow
}

func newMemRepo() *memRepo {
	return &memRepo{flows: make(map[id.ID][]FlowRow)}
}

func (r *memRepo) PaymentFormFlows(ctx context.Context, paymentFormID id.ID) ([]FlowRow, error) {
	return r.flows[paymentFormID], nil
}

func (r *memRepo) ConceptExecutionRows(ctx context.Context, filter ExecutionFilter) ([]ExecutionRow, error) {
	allowed := make(map[id.ID]struct{}, len(filter.ConceptIDs))
	for _, conceptID := range filter.ConceptIDs {
		allowed[conceptID] = struct{}{}
	}
	var out []ExecutionRow
	for _, row := range r.rows {
		if _, ok := allowed[row.ConceptID]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

type memBudgets struct {
	budgets map[id.ID]*budget.Budget
}

func (b *memBudgets) GetByID(ctx context.Context, budgetID id.ID) (*budget.Budget, error) {
	bd, ok := b.budgets[budgetID]
	if !ok {
		return nil, apperror.NewNotFound("budget", budgetID.String())
	}
	return bd, nil
}

func money(s string) types.Money {
	return types.MustMoney(s)
}

func window() (time.Time, time.Time) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func reconciledAt(t time.Time) *time.Time {
	return &t
}

func TestBankReconciliation_Balances(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, &memBudgets{})
	form := id.New()
	from, to := window()

	repo.flows[form] = []FlowRow{
		// Reconciled before the window.
		{Type: int16(ledger.TypeIncomingPayment), Total: money("1000.00"), IsReconciled: true, ReconciledAt: reconciledAt(from.AddDate(0, -1, 0))},
		// Reconciled inside the window: one in, one out.
		{Type: int16(ledger.TypeIncomingPayment), Total: money("300.00"), IsReconciled: true, ReconciledAt: reconciledAt(from.AddDate(0, 0, 5))},
		{Type: int16(ledger.TypeOutgoingPayment), Total: money("120.00"), IsReconciled: true, ReconciledAt: reconciledAt(from.AddDate(0, 0, 10))},
		// Not reconciled yet.
		{Type: int16(ledger.TypeIncomingPayment), Total: money("50.00")},
	}

	result, err := svc.BankReconciliation(context.Background(), ReconciliationFilter{
		PaymentFormID: form,
		DateFrom:      from,
		DateTo:        to,
	})
	require.NoError(t, err)

	assert.True(t, result.CurrentBalance.Equal(money("1230.00")), "got %s", result.CurrentBalance)
	assert.True(t, result.PreviousBalance.Equal(money("1000.00")), "got %s", result.PreviousBalance)
	assert.True(t, result.ReconciledBalance.Equal(money("180.00")), "got %s", result.ReconciledBalance)
	assert.Equal(t, 4, result.TransactionCount)
}

func TestBankReconciliation_CashExpensesSubtract(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, &memBudgets{})
	form := id.New()
	from, to := window()

	// A cash sale and a cash expense of the same size settled directly on
	// the form must cancel out.
	repo.flows[form] = []FlowRow{
		{Type: int16(ledger.TypeSale), Total: money("100.00")},
		{Type: int16(ledger.TypeExpense), Total: money("100.00")},
	}

	result, err := svc.BankReconciliation(context.Background(), ReconciliationFilter{
		PaymentFormID: form,
		DateFrom:      from,
		DateTo:        to,
	})
	require.NoError(t, err)

	assert.True(t, result.CurrentBalance.IsZero(), "got %s", result.CurrentBalance)
}

func TestBankReconciliation_EmptySetYieldsZeros(t *testing.T) {
	svc := NewService(newMemRepo(), &memBudgets{})
	from, to := window()

	result, err := svc.BankReconciliation(context.Background(), ReconciliationFilter{
		PaymentFormID: id.New(),
		DateFrom:      from,
		DateTo:        to,
	})
	require.NoError(t, err)

	assert.True(t, result.CurrentBalance.IsZero())
	assert.True(t, result.PreviousBalance.IsZero())
	assert.True(t, result.ReconciledBalance.IsZero())
}

func TestBankReconciliation_Idempotent(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, &memBudgets{})
	form := id.New()
	from, to := window()

	repo.flows[form] = []FlowRow{
		{Type: int16(ledger.TypeIncomingPayment), Total: money("75.00"), IsReconciled: true, ReconciledAt: reconciledAt(from.AddDate(0, 0, 1))},
	}

	filter := ReconciliationFilter{PaymentFormID: form, DateFrom: from, DateTo: to}
	first, err := svc.BankReconciliation(context.Background(), filter)
	require.NoError(t, err)
	second, err := svc.BankReconciliation(context.Background(), filter)
	require.NoError(t, err)

	assert.True(t, first.CurrentBalance.Equal(second.CurrentBalance))
	assert.True(t, first.PreviousBalance.Equal(second.PreviousBalance))
	assert.True(t, first.ReconciledBalance.Equal(second.ReconciledBalance))
}

func TestBankReconciliation_ValidatesInput(t *testing.T) {
	svc := NewService(newMemRepo(), &memBudgets{})
	from, to := window()

	_, err := svc.BankReconciliation(context.Background(), ReconciliationFilter{
		DateFrom: from,
		DateTo:   to,
	})
	require.Error(t, err)

	_, err = svc.BankReconciliation(context.Background(), ReconciliationFilter{
		PaymentFormID: id.New(),
		DateFrom:      to,
		DateTo:        from,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func testBudget(lines ...budget.BudgetLine) (*memBudgets, *budget.Budget) {
	from, to := window()
	b := budget.NewBudget("March", from, to)
	b.Lines = lines
	return &memBudgets{budgets: map[id.ID]*budget.Budget{b.ID: b}}, b
}

func TestBudgetExecution_SumsNormalizedExpenses(t *testing.T) {
	rent := id.New()
	budgets, b := testBudget(budget.NewLine(id.New(), rent, money("1000.00"), 0))
	repo := newMemRepo()
	// Expense details arrive with mixed storage signs; both count as spend.
	repo.rows = []ExecutionRow{
		{ConceptID: rent, Total: money("-300.00"), IsExpense: true},
		{ConceptID: rent, Total: money("200.00"), IsExpense: true},
	}
	svc := NewService(repo, budgets)

	result, err := svc.BudgetExecution(context.Background(), b.ID, ExecutionOverrides{})
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	line := result.Lines[0]
	assert.True(t, line.Executed.Equal(money("500.00")), "got %s", line.Executed)
	assert.True(t, line.Variance.Equal(money("500.00")), "got %s", line.Variance)
	assert.True(t, result.TotalBudgeted.Equal(money("1000.00")))
	assert.True(t, result.TotalExecuted.Equal(money("500.00")))
}

func TestBudgetExecution_EmptyExecutionMeansFullVariance(t *testing.T) {
	rent := id.New()
	budgets, b := testBudget(budget.NewLine(id.New(), rent, money("800.00"), 0))
	svc := NewService(newMemRepo(), budgets)

	result, err := svc.BudgetExecution(context.Background(), b.ID, ExecutionOverrides{})
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	assert.True(t, result.Lines[0].Executed.IsZero())
	assert.True(t, result.Lines[0].Variance.Equal(money("800.00")))
}

func TestBudgetExecution_OverspendYieldsNegativeVariance(t *testing.T) {
	rent := id.New()
	budgets, b := testBudget(budget.NewLine(id.New(), rent, money("100.00"), 0))
	repo := newMemRepo()
	repo.rows = []ExecutionRow{
		{ConceptID: rent, Total: money("150.00"), IsExpense: true},
	}
	svc := NewService(repo, budgets)

	result, err := svc.BudgetExecution(context.Background(), b.ID, ExecutionOverrides{})
	require.NoError(t, err)
	assert.True(t, result.Lines[0].Variance.Equal(money("-50.00")))
}

func TestBudgetExecution_OverridesNarrowWindow(t *testing.T) {
	rent := id.New()
	budgets, b := testBudget(budget.NewLine(id.New(), rent, money("100.00"), 0))
	svc := NewService(newMemRepo(), budgets)

	from, _ := window()
	mid := from.AddDate(0, 0, 10)
	result, err := svc.BudgetExecution(context.Background(), b.ID, ExecutionOverrides{
		DateFrom: &mid,
	})
	require.NoError(t, err)
	assert.Equal(t, mid, result.DateFrom)

	// Inverted override window is rejected.
	bad := from.AddDate(0, -2, 0)
	_, err = svc.BudgetExecution(context.Background(), b.ID, ExecutionOverrides{
		DateTo: &bad,
	})
	require.Error(t, err)
}

func TestBudgetExecution_UnknownBudget(t *testing.T) {
	svc := NewService(newMemRepo(), &memBudgets{budgets: map[id.ID]*budget.Budget{}})

	_, err := svc.BudgetExecution(context.Background(), id.New(), ExecutionOverrides{})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
