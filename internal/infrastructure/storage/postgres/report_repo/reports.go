// Package report_repo reads row-level ledger data for the report
// services. Queries return rows, never sums; the services aggregate so
// the sign convention stays in the ledger package.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"folio/internal/core/account"
	"folio/internal/core/id"
	"folio/internal/domain/reports"
	"folio/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

func (r *ReportRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// PaymentFormFlows returns every active transaction posted to the
// payment form, including unreconciled ones.
func (r *ReportRepo) PaymentFormFlows(ctx context.Context, paymentFormID id.ID) ([]reports.FlowRow, error) {
	sql, args, err := r.builder().
		Select("type", "total", "is_reconciled", "reconciled_at").
		From("transactions").
		Where(squirrel.Eq{"account_id": account.MustGetID(ctx)}).
		Where(squirrel.Eq{"payment_form_id": paymentFormID}).
		Where(squirrel.Eq{"is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.FlowRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("payment form flows: %w", err)
	}
	return rows, nil
}

// ConceptExecutionRows returns detail lines of active transactions whose
// concept is in the filter set, joined with the concept's expense flag.
func (r *ReportRepo) ConceptExecutionRows(ctx context.Context, filter reports.ExecutionFilter) ([]reports.ExecutionRow, error) {
	if len(filter.ConceptIDs) == 0 {
		return nil, nil
	}
	accountID := account.MustGetID(ctx)

	q := r.builder().
		Select("d.concept_id", "d.total", "c.is_expense").
		From("transaction_details d").
		Join("transactions t ON t.id = d.transaction_id AND t.account_id = d.account_id").
		Join("cat_concepts c ON c.id = d.concept_id AND c.account_id = d.account_id").
		Where(squirrel.Eq{"d.account_id": accountID}).
		Where(squirrel.Eq{"d.concept_id": filter.ConceptIDs}).
		Where(squirrel.Eq{"t.is_active": true}).
		Where(squirrel.GtOrEq{"t.date": filter.DateFrom}).
		Where(squirrel.LtOrEq{"t.date": filter.DateTo})

	if filter.ProjectID != nil {
		q = q.Where(squirrel.Eq{"t.project_id": *filter.ProjectID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.ExecutionRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("concept execution rows: %w", err)
	}
	return rows, nil
}
