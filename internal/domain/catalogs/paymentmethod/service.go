package paymentmethod

import (
	"folio/internal/core/tx"
	"folio/internal/domain"
)

// Repository is the payment method data access interface.
type Repository interface {
	domain.CatalogRepository[*PaymentMethod]
}

// Service provides payment method business logic.
type Service struct {
	*domain.CatalogService[*PaymentMethod]
}

// NewService creates a new payment method service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*PaymentMethod]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "payment method",
		}),
	}
}
