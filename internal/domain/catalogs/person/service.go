package person

import (
	"folio/internal/core/tx"
	"folio/internal/domain"
)

// Repository is the person data access interface.
type Repository interface {
	domain.CatalogRepository[*Person]
}

// Service provides person business logic.
type Service struct {
	*domain.CatalogService[*Person]
}

// NewService creates a new person service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Person]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "person",
		}),
	}
}
