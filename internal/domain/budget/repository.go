package budget

import (
	"context"
	"time"

	"folio/internal/core/id"
	"folio/internal/domain"
)

// Filter narrows budget listings.
type Filter struct {
	ProjectID *id.ID
	// ActiveOn selects budgets whose period covers this instant.
	ActiveOn *time.Time
	Limit    int
	Offset   int
}

// Repository persists budget headers and lines.
//
// Update replaces the full line set: implementations delete existing
// lines and insert the new ones in the same database transaction as the
// header update.
type Repository interface {
	Create(ctx context.Context, b *Budget) error
	GetByID(ctx context.Context, budgetID id.ID) (*Budget, error)
	GetForUpdate(ctx context.Context, budgetID id.ID) (*Budget, error)
	Update(ctx context.Context, b *Budget) error
	SetDeletionMark(ctx context.Context, budgetID id.ID, mark bool) error
	GetLines(ctx context.Context, budgetID id.ID) ([]BudgetLine, error)
	List(ctx context.Context, filter Filter) (domain.ListResult[*Budget], error)
}
