package paymentform

import (
	"folio/internal/core/tx"
	"folio/internal/domain"
)

// Repository is the payment form data access interface.
type Repository interface {
	domain.CatalogRepository[*PaymentForm]
}

// Service provides payment form business logic.
type Service struct {
	*domain.CatalogService[*PaymentForm]
}

// NewService creates a new payment form service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*PaymentForm]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "payment form",
		}),
	}
}
