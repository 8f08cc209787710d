// Package budget_repo persists budget headers and their concept lines.
package budget_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"folio/internal/core/account"
	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/domain"
	"folio/internal/domain/budget"
	"folio/internal/infrastructure/storage/postgres"
)

const (
	budgetTable = "budgets"
	lineTable   = "budget_lines"
)

// BudgetRepo implements budget.Repository.
type BudgetRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
	lineCols   []string
}

// NewBudgetRepo creates a new budget repository.
func NewBudgetRepo(txManager *postgres.TxManager) *BudgetRepo {
	return &BudgetRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[budget.Budget](),
		lineCols:   postgres.ExtractDBColumns[budget.BudgetLine](),
	}
}

func (r *BudgetRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BudgetRepo) baseSelect(ctx context.Context) squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(budgetTable).
		Where(squirrel.Eq{"account_id": account.MustGetID(ctx)})
}

// Create inserts the header and all lines.
func (r *BudgetRepo) Create(ctx context.Context, b *budget.Budget) error {
	b.SetAccountID(account.MustGetID(ctx))

	data := postgres.StructToMap(b)
	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert(budgetTable).
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}

	return r.insertLines(ctx, b.Lines)
}

// GetByID retrieves the budget header without its lines.
func (r *BudgetRepo) GetByID(ctx context.Context, budgetID id.ID) (*budget.Budget, error) {
	return r.getOne(ctx, r.baseSelect(ctx).Where(squirrel.Eq{"id": budgetID}).Limit(1), budgetID)
}

// GetForUpdate retrieves the header with a row lock. Must run inside a
// database transaction.
func (r *BudgetRepo) GetForUpdate(ctx context.Context, budgetID id.ID) (*budget.Budget, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"id": budgetID}).
		Suffix("FOR UPDATE")
	return r.getOne(ctx, q, budgetID)
}

func (r *BudgetRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, budgetID id.ID) (*budget.Budget, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b budget.Budget
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("budget", budgetID.String())
		}
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return &b, nil
}

// Update rewrites the header with optimistic locking and replaces the
// full line set. Callers run it inside a transaction so the delete and
// re-insert are atomic with the header write.
func (r *BudgetRepo) Update(ctx context.Context, b *budget.Budget) error {
	accountID := account.MustGetID(ctx)

	data := postgres.StructToMap(b)
	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" || col == "account_id" || col == "version" {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Update(budgetTable).
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": b.ID}).
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.Eq{"version": b.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("budget", b.ID.String())
	}
	b.SetVersion(b.Version + 1)

	delSQL, delArgs, err := r.builder().
		Delete(lineTable).
		Where(squirrel.Eq{"budget_id": b.ID}).
		Where(squirrel.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete budget lines: %w", err)
	}

	return r.insertLines(ctx, b.Lines)
}

func (r *BudgetRepo) insertLines(ctx context.Context, lines []budget.BudgetLine) error {
	if len(lines) == 0 {
		return nil
	}
	accountID := account.MustGetID(ctx)

	q := r.builder().Insert(lineTable).Columns(r.lineCols...)
	for i := range lines {
		lines[i].AccountID = accountID
		data := postgres.StructToMap(lines[i])
		row := make([]any, 0, len(r.lineCols))
		for _, col := range r.lineCols {
			row = append(row, data[col])
		}
		q = q.Values(row...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert budget lines: %w", err)
	}
	return nil
}

// SetDeletionMark toggles the soft-deletion flag.
func (r *BudgetRepo) SetDeletionMark(ctx context.Context, budgetID id.ID, mark bool) error {
	sql, args, err := r.builder().
		Update(budgetTable).
		Set("deletion_mark", mark).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": budgetID}).
		Where(squirrel.Eq{"account_id": account.MustGetID(ctx)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set deletion mark: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set deletion mark: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("budget", budgetID.String())
	}
	return nil
}

// GetLines loads the lines of a budget ordered by position.
func (r *BudgetRepo) GetLines(ctx context.Context, budgetID id.ID) ([]budget.BudgetLine, error) {
	sql, args, err := r.builder().
		Select(r.lineCols...).
		From(lineTable).
		Where(squirrel.Eq{"budget_id": budgetID}).
		Where(squirrel.Eq{"account_id": account.MustGetID(ctx)}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []budget.BudgetLine
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get budget lines: %w", err)
	}
	return lines, nil
}

// List retrieves budget headers with filtering and pagination.
func (r *BudgetRepo) List(ctx context.Context, filter budget.Filter) (domain.ListResult[*budget.Budget], error) {
	result := domain.ListResult[*budget.Budget]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx).Where(squirrel.Eq{"deletion_mark": false})

	if filter.ProjectID != nil {
		q = q.Where(squirrel.Eq{"project_id": *filter.ProjectID})
	}
	if filter.ActiveOn != nil {
		q = q.Where(squirrel.LtOrEq{"date_from": *filter.ActiveOn}).
			Where(squirrel.GtOrEq{"date_to": *filter.ActiveOn})
	}

	countSQL, countArgs, err := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("date_from DESC", "name ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list budgets: %w", err)
	}
	return result, nil
}
