package ledger

import (
	"context"
	"time"

	"folio/internal/core/id"
	"folio/internal/core/types"
	"folio/internal/domain"
	"folio/internal/domain/catalogs/concept"
)

// Filter narrows transaction list queries.
type Filter struct {
	Types        []Type
	IsActive     *bool
	IsReconciled *bool

	PersonID      *id.ID
	PaymentFormID *id.ID
	ProjectID     *id.ID

	DateFrom *time.Time
	DateTo   *time.Time

	// OnlyWithBalance keeps transactions with an open balance (credit sales,
	// unpaid purchases, obligations).
	OnlyWithBalance bool

	OrderBy string
	Limit   int
	Offset  int
}

// Repository is the ledger store contract.
// All operations are scoped to the account in context; writes participate
// in the transaction carried by context.
type Repository interface {
	// Create inserts a transaction row.
	Create(ctx context.Context, t *Transaction) error

	// CreateDetails inserts detail rows for a transaction.
	CreateDetails(ctx context.Context, details []TransactionDetail) error

	// GetByID retrieves a transaction without locking.
	GetByID(ctx context.Context, transactionID id.ID) (*Transaction, error)

	// GetForUpdate retrieves a transaction with SELECT ... FOR UPDATE.
	// Must be called inside a database transaction.
	GetForUpdate(ctx context.Context, transactionID id.ID) (*Transaction, error)

	// GetBySource retrieves the incoming leg whose source_transaction_id
	// points at the given outgoing leg.
	GetBySource(ctx context.Context, sourceTransactionID id.ID) (*Transaction, error)

	// Update persists header changes with optimistic locking.
	Update(ctx context.Context, t *Transaction) error

	// SetActive flips the soft-activation flag.
	SetActive(ctx context.Context, transactionID id.ID, active bool) error

	// GetDetails loads the detail lines of a transaction.
	GetDetails(ctx context.Context, transactionID id.ID) ([]TransactionDetail, error)

	// UpdateDetailTotal rewrites the monetary columns of a single detail.
	UpdateDetailTotal(ctx context.Context, detailID id.ID, total types.Money) error

	// List retrieves transactions with filtering and pagination.
	List(ctx context.Context, filter Filter) (domain.ListResult[*Transaction], error)
}

// ConceptProvider is the slice of the concept service the ledger needs.
type ConceptProvider interface {
	SystemPaymentConcept(ctx context.Context, direction concept.PaymentDirection) (*concept.Concept, error)
	Exists(ctx context.Context, conceptID id.ID) (bool, error)
	GetByID(ctx context.Context, conceptID id.ID) (*concept.Concept, error)
}

// AuditLogger records entity change history. Implemented by the postgres
// audit service; nil disables auditing.
type AuditLogger interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}
