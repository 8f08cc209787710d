// Package ledger_repo persists the ledger: transactions and their detail
// lines. Every statement carries the account predicate from context.
package ledger_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"folio/internal/core/account"
	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/core/types"
	"folio/internal/domain"
	"folio/internal/domain/ledger"
	"folio/internal/infrastructure/storage/postgres"
)

const (
	transactionTable = "transactions"
	detailTable      = "transaction_details"
)

// TransactionRepo implements ledger.Repository.
type TransactionRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
	detailCols []string
}

// NewTransactionRepo creates a new ledger repository.
func NewTransactionRepo(txManager *postgres.TxManager) *TransactionRepo {
	return &TransactionRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[ledger.Transaction](),
		detailCols: postgres.ExtractDBColumns[ledger.TransactionDetail](),
	}
}

func (r *TransactionRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *TransactionRepo) baseSelect(ctx context.Context) squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(transactionTable).
		Where(squirrel.Eq{"account_id": account.MustGetID(ctx)})
}

// Create inserts a transaction row bound to the request's account.
func (r *TransactionRepo) Create(ctx context.Context, t *ledger.Transaction) error {
	t.SetAccountID(account.MustGetID(ctx))

	data := postgres.StructToMap(t)
	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert(transactionTable).
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// CreateDetails inserts detail rows in one multi-row statement.
func (r *TransactionRepo) CreateDetails(ctx context.Context, details []ledger.TransactionDetail) error {
	if len(details) == 0 {
		return nil
	}
	accountID := account.MustGetID(ctx)

	q := r.builder().Insert(detailTable).Columns(r.detailCols...)
	for i := range details {
		details[i].AccountID = accountID
		data := postgres.StructToMap(details[i])
		row := make([]any, 0, len(r.detailCols))
		for _, col := range r.detailCols {
			row = append(row, data[col])
		}
		q = q.Values(row...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert details: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert transaction details: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction without locking.
func (r *TransactionRepo) GetByID(ctx context.Context, transactionID id.ID) (*ledger.Transaction, error) {
	return r.getOne(ctx, r.baseSelect(ctx).Where(squirrel.Eq{"id": transactionID}).Limit(1), transactionID.String())
}

// GetForUpdate retrieves a transaction with a row lock. Must run inside
// a database transaction.
func (r *TransactionRepo) GetForUpdate(ctx context.Context, transactionID id.ID) (*ledger.Transaction, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"id": transactionID}).
		Suffix("FOR UPDATE")
	return r.getOne(ctx, q, transactionID.String())
}

// GetBySource retrieves the incoming leg whose source_transaction_id
// points at the given outgoing leg.
func (r *TransactionRepo) GetBySource(ctx context.Context, sourceTransactionID id.ID) (*ledger.Transaction, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"source_transaction_id": sourceTransactionID}).
		Limit(1)
	return r.getOne(ctx, q, sourceTransactionID.String())
}

func (r *TransactionRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*ledger.Transaction, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t ledger.Transaction
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("transaction", key)
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

// Update persists header changes with optimistic locking. The version
// check catches writers that slipped past the row lock.
func (r *TransactionRepo) Update(ctx context.Context, t *ledger.Transaction) error {
	data := postgres.StructToMap(t)

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
		Update(transactionTable).
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": t.ID}).
		Where(squirrel.Eq{"account_id": account.MustGetID(ctx)}).
		Where(squirrel.Eq{"version": t.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("transaction", t.ID.String())
	}
	t.SetVersion(t.Version + 1)
	return nil
}

// SetActive flips the soft-activation flag.
func (r *TransactionRepo) SetActive(ctx context.Context, transactionID id.ID, active bool) error {
	sql, args, err := r.builder().
		Update(transactionTable).
		Set("is_active", active).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": transactionID}).
		Where(squirrel.Eq{"account_id": account.MustGetID(ctx)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set active: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("transaction", transactionID.String())
	}
	return nil
}

// GetDetails loads the detail lines of a transaction.
func (r *TransactionRepo) GetDetails(ctx context.Context, transactionID id.ID) ([]ledger.TransactionDetail, error) {
	sql, args, err := r.builder().
		Select(r.detailCols...).
		From(detailTable).
		Where(squirrel.Eq{"transaction_id": transactionID}).
		Where(squirrel.Eq{"account_id": account.MustGetID(ctx)}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var details []ledger.TransactionDetail
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &details, sql, args...); err != nil {
		return nil, fmt.Errorf("get details: %w", err)
	}
	return details, nil
}

// UpdateDetailTotal rewrites the monetary columns of a single detail.
func (r *TransactionRepo) UpdateDetailTotal(ctx context.Context, detailID id.ID, total types.Money) error {
	sql, args, err := r.builder().
		Update(detailTable).
		Set("total", total).
		Set("unit_amount", total).
		Where(squirrel.Eq{"id": detailID}).
		Where(squirrel.Eq{"account_id": account.MustGetID(ctx)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update detail: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update detail total: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("transaction detail", detailID.String())
	}
	return nil
}

// List retrieves transactions with filtering and pagination.
func (r *TransactionRepo) List(ctx context.Context, filter ledger.Filter) (domain.ListResult[*ledger.Transaction], error) {
	result := domain.ListResult[*ledger.Transaction]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx)

	if len(filter.Types) > 0 {
		q = q.Where(squirrel.Eq{"type": filter.Types})
	}
	if filter.IsActive != nil {
		q = q.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}
	if filter.IsReconciled != nil {
		q = q.Where(squirrel.Eq{"is_reconciled": *filter.IsReconciled})
	}
	if filter.PersonID != nil {
		q = q.Where(squirrel.Eq{"person_id": *filter.PersonID})
	}
	if filter.PaymentFormID != nil {
		q = q.Where(squirrel.Eq{"payment_form_id": *filter.PaymentFormID})
	}
	if filter.ProjectID != nil {
		q = q.Where(squirrel.Eq{"project_id": *filter.ProjectID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.OnlyWithBalance {
		q = q.Where(squirrel.Gt{"balance": 0})
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

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

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
		return result, fmt.Errorf("list transactions: %w", err)
	}
	return result, nil
}

func (r *TransactionRepo) parseOrderBy(orderBy string) (string, error) {
	allowed := map[string]struct{}{
		"date": {}, "reference": {}, "type": {}, "total": {},
		"balance": {}, "created_at": {},
	}

	if orderBy == "" {
		return "date DESC, created_at DESC", nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	}
	field = strings.TrimSpace(field)

	if _, ok := allowed[field]; !ok {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}
	return field + " " + direction, nil
}
