package concept

import (
	"context"

	"folio/internal/core/apperror"
	"folio/internal/core/tx"
	"folio/internal/domain"
)

// Repository extends the generic catalog repository with the sentinel lookup.
type Repository interface {
	domain.CatalogRepository[*Concept]

	// GetSystemPaymentConcept returns the account's sentinel for the
	// given kind (KindPaymentIn or KindPaymentOut).
	GetSystemPaymentConcept(ctx context.Context, kind Kind) (*Concept, error)
}

// Service provides concept business logic.
type Service struct {
	*domain.CatalogService[*Concept]
	repo Repository
}

// NewService creates a new concept service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	s := &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Concept]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "concept",
		}),
		repo: repo,
	}

	// System concepts are infrastructure: deleting one would orphan every
	// payment detail in the account.
	s.Hooks().OnBeforeDelete(func(ctx context.Context, c *Concept) error {
		if c.IsSystem {
			return apperror.NewForbidden("system concepts cannot be deleted").
				WithDetail("concept_id", c.ID.String()).
				WithDetail("kind", string(c.Kind))
		}
		return nil
	})

	return s
}

// SystemPaymentConcept returns the account's payment sentinel for a direction.
func (s *Service) SystemPaymentConcept(ctx context.Context, direction PaymentDirection) (*Concept, error) {
	c, err := s.repo.GetSystemPaymentConcept(ctx, direction.PaymentKind())
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("system payment concept", string(direction))
		}
		return nil, err
	}
	return c, nil
}
