package currency

import (
	"folio/internal/core/tx"
	"folio/internal/domain"
)

// Repository is the currency data access interface.
type Repository interface {
	domain.CatalogRepository[*Currency]
}

// Service provides currency business logic.
type Service struct {
	*domain.CatalogService[*Currency]
}

// NewService creates a new currency service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Currency]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "currency",
		}),
	}
}
