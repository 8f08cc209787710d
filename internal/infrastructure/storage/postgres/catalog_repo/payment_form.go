package catalog_repo

import (
	"folio/internal/domain/catalogs/paymentform"
	"folio/internal/infrastructure/storage/postgres"
)

const paymentFormTable = "cat_payment_forms"

// PaymentFormRepo implements paymentform.Repository.
type PaymentFormRepo struct {
	*BaseCatalogRepo[*paymentform.PaymentForm]
}

// NewPaymentFormRepo creates a new payment form repository.
func NewPaymentFormRepo(txManager *postgres.TxManager) *PaymentFormRepo {
	return &PaymentFormRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			paymentFormTable,
			postgres.ExtractDBColumns[paymentform.PaymentForm](),
			func() *paymentform.PaymentForm { return &paymentform.PaymentForm{} },
		),
	}
}
