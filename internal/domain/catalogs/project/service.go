package project

import (
	"folio/internal/core/tx"
	"folio/internal/domain"
)

// Repository is the project data access interface.
type Repository interface {
	domain.CatalogRepository[*Project]
}

// Service provides project business logic.
type Service struct {
	*domain.CatalogService[*Project]
}

// NewService creates a new project service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Project]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "project",
		}),
	}
}
