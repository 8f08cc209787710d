package auth_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/domain/auth"
	"folio/internal/infrastructure/storage/postgres"
)

const accountTable = "accounts"

// AccountRepo implements auth.AccountRepository.
type AccountRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewAccountRepo creates a new account repository.
func NewAccountRepo(txManager *postgres.TxManager) *AccountRepo {
	return &AccountRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[auth.Account](),
	}
}

func (r *AccountRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts an account.
func (r *AccountRepo) Create(ctx context.Context, account *auth.Account) error {
	data := postgres.StructToMap(account)
	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert(accountTable).
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepo) GetByID(ctx context.Context, accountID id.ID) (*auth.Account, error) {
	sql, args, err := r.builder().
		Select(r.selectCols...).
		From(accountTable).
		Where(squirrel.Eq{"id": accountID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var account auth.Account
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &account, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("account", accountID.String())
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &account, nil
}

var _ auth.AccountRepository = (*AccountRepo)(nil)
