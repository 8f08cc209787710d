package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"folio/internal/core/account"
	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/domain/catalogs/concept"
	"folio/internal/infrastructure/storage/postgres"
)

const conceptTable = "cat_concepts"

// ConceptRepo implements concept.Repository.
type ConceptRepo struct {
	*BaseCatalogRepo[*concept.Concept]
}

// NewConceptRepo creates a new concept repository.
func NewConceptRepo(txManager *postgres.TxManager) *ConceptRepo {
	return &ConceptRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			conceptTable,
			postgres.ExtractDBColumns[concept.Concept](),
			func() *concept.Concept { return &concept.Concept{} },
		),
	}
}

// GetSystemPaymentConcept finds the account's sentinel for the given kind.
func (r *ConceptRepo) GetSystemPaymentConcept(ctx context.Context, kind concept.Kind) (*concept.Concept, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"kind": kind}).
		Where(squirrel.Eq{"is_system": true}).
		Limit(1)

	c, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("system payment concept", string(kind))
		}
		return nil, err
	}
	return c, nil
}

// SeedSystemConcepts inserts the two payment sentinels for a fresh
// account. Called from account registration, before the request context
// carries an account ID.
func (r *ConceptRepo) SeedSystemConcepts(ctx context.Context, accountID id.ID) error {
	ctx = account.WithID(ctx, accountID)
	for _, direction := range []concept.PaymentDirection{concept.PaymentIncoming, concept.PaymentOutgoing} {
		if err := r.Create(ctx, concept.NewSystemPaymentConcept(direction)); err != nil {
			return err
		}
	}
	return nil
}
