// Package paymentform provides the PaymentForm catalog: the money holders
// (cashboxes, bank accounts, cards) between which funds move.
package paymentform

import (
	"context"

	"folio/internal/core/apperror"
	"folio/internal/core/entity"
)

// Kind classifies a payment form.
type Kind string

const (
	KindCashbox Kind = "cashbox"
	KindBank    Kind = "bank"
	KindCard    Kind = "card"
)

// PaymentForm is a catalog entry in cat_payment_forms.
type PaymentForm struct {
	entity.Catalog

	Kind Kind `db:"kind" json:"kind"`

	// AccountNumber is the bank account or card number (display only).
	AccountNumber string `db:"account_number" json:"accountNumber,omitempty"`
}

// NewPaymentForm creates a new payment form.
func NewPaymentForm(code, name string, kind Kind) *PaymentForm {
	return &PaymentForm{
		Catalog: entity.NewCatalog(code, name),
		Kind:    kind,
	}
}

// Validate implements entity.Validatable.
func (f *PaymentForm) Validate(ctx context.Context) error {
	if err := f.Catalog.Validate(ctx); err != nil {
		return err
	}
	switch f.Kind {
	case KindCashbox, KindBank, KindCard:
		return nil
	}
	return apperror.NewValidation("unknown payment form kind").
		WithDetail("field", "kind").
		WithDetail("value", string(f.Kind))
}

// IsBank reports whether the form is a bank account.
func (f *PaymentForm) IsBank() bool {
	return f.Kind == KindBank
}
