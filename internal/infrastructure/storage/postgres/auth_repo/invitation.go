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

const invitationTable = "invitations"

// InvitationRepo implements auth.InvitationRepository.
type InvitationRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewInvitationRepo creates a new invitation repository.
func NewInvitationRepo(txManager *postgres.TxManager) *InvitationRepo {
	return &InvitationRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[auth.Invitation](),
	}
}

func (r *InvitationRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts an invitation.
func (r *InvitationRepo) Create(ctx context.Context, inv *auth.Invitation) error {
	data := postgres.StructToMap(inv)
	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert(invitationTable).
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

// GetByTokenHash retrieves an invitation by the hash of its raw token.
func (r *InvitationRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*auth.Invitation, error) {
	sql, args, err := r.builder().
		Select(r.selectCols...).
		From(invitationTable).
		Where(squirrel.Eq{"token_hash": tokenHash}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var inv auth.Invitation
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &inv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("invitation", "token")
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return &inv, nil
}

// MarkAccepted stamps the invitation. The accepted_at guard makes the
// token single-use even under concurrent accepts.
func (r *InvitationRepo) MarkAccepted(ctx context.Context, invitationID id.ID) error {
	sql, args, err := r.builder().
		Update(invitationTable).
		Set("accepted_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": invitationID}).
		Where(squirrel.Eq{"accepted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark invitation accepted: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConflict("invitation already accepted")
	}
	return nil
}

var _ auth.InvitationRepository = (*InvitationRepo)(nil)
