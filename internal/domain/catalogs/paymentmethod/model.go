// Package paymentmethod provides the PaymentMethod catalog (cash, transfer,
// card, check and similar instruments).
package paymentmethod

import (
	"folio/internal/core/entity"
)

// PaymentMethod is a catalog entry in cat_payment_methods.
type PaymentMethod struct {
	entity.Catalog
}

// NewPaymentMethod creates a new payment method.
func NewPaymentMethod(code, name string) *PaymentMethod {
	return &PaymentMethod{
		Catalog: entity.NewCatalog(code, name),
	}
}
