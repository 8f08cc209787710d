// Package concept provides the Concept catalog: the classification axis every
// transaction detail points at (products, income and expense categories,
// payables and the system payment sentinels).
package concept

import (
	"context"

	"folio/internal/core/apperror"
	"folio/internal/core/entity"
	"folio/internal/core/id"
)

// Kind classifies a concept.
type Kind string

const (
	KindProduct Kind = "product"
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
	KindPayable Kind = "payable"
	KindGroup   Kind = "group"

	// The two payment sentinels exist once per account per direction.
	// Payment transaction details always reference one of them.
	KindPaymentIn  Kind = "payment_in"
	KindPaymentOut Kind = "payment_out"
)

// PaymentDirection selects one of the two system payment concepts.
type PaymentDirection string

const (
	PaymentIncoming PaymentDirection = "incoming"
	PaymentOutgoing PaymentDirection = "outgoing"
)

// PaymentKind maps a direction to the sentinel concept kind.
func (d PaymentDirection) PaymentKind() Kind {
	if d == PaymentOutgoing {
		return KindPaymentOut
	}
	return KindPaymentIn
}

// Concept is a catalog entry in cat_concepts.
type Concept struct {
	entity.Catalog

	Kind Kind `db:"kind" json:"kind"`

	// IsExpense drives sign normalization in reports.
	IsExpense bool `db:"is_expense" json:"isExpense"`

	// ParentID links the concept into a group (KindGroup parent).
	ParentID *id.ID `db:"parent_id" json:"parentId,omitempty"`

	// IsSystem marks the payment sentinels. System concepts cannot be
	// deleted or re-kinded by users.
	IsSystem bool `db:"is_system" json:"isSystem"`
}

// NewConcept creates a new concept.
func NewConcept(code, name string, kind Kind) *Concept {
	return &Concept{
		Catalog:   entity.NewCatalog(code, name),
		Kind:      kind,
		IsExpense: kind == KindExpense || kind == KindPaymentOut,
	}
}

// NewSystemPaymentConcept creates one of the two per-account sentinels.
func NewSystemPaymentConcept(direction PaymentDirection) *Concept {
	kind := direction.PaymentKind()
	name := "Incoming payment"
	code := "SYS-PAY-IN"
	if direction == PaymentOutgoing {
		name = "Outgoing payment"
		code = "SYS-PAY-OUT"
	}
	c := NewConcept(code, name, kind)
	c.IsSystem = true
	return c
}

func validKind(k Kind) bool {
	switch k {
	case KindProduct, KindIncome, KindExpense, KindPayable, KindGroup, KindPaymentIn, KindPaymentOut:
		return true
	}
	return false
}

// Validate implements entity.Validatable.
func (c *Concept) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}
	if !validKind(c.Kind) {
		return apperror.NewValidation("unknown concept kind").
			WithDetail("field", "kind").
			WithDetail("value", string(c.Kind))
	}
	if c.IsSystem && c.Kind != KindPaymentIn && c.Kind != KindPaymentOut {
		return apperror.NewValidation("only payment concepts can be system concepts").
			WithDetail("kind", string(c.Kind))
	}
	return nil
}

// IsPayment reports whether the concept is one of the payment sentinels.
func (c *Concept) IsPayment() bool {
	return c.Kind == KindPaymentIn || c.Kind == KindPaymentOut
}
