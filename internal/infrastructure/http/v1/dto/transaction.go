package dto

import (
	"time"

	"folio/internal/core/id"
	"folio/internal/core/types"
	"folio/internal/domain/ledger"
)

// DetailRequest is one detail line of a transaction.
type DetailRequest struct {
	ConceptID   id.ID       `json:"conceptId" binding:"required"`
	Description string      `json:"description"`
	Quantity    types.Money `json:"quantity"`
	UnitAmount  types.Money `json:"unitAmount"`
	Total       types.Money `json:"total"`
}

// CreateTransactionRequest is the request body for composing a transaction.
type CreateTransactionRequest struct {
	Type int16     `json:"type" binding:"required"`
	Date time.Time `json:"date" binding:"required"`

	PersonID        *id.ID `json:"personId"`
	ProjectID       *id.ID `json:"projectId"`
	PaymentFormID   *id.ID `json:"paymentFormId"`
	PaymentMethodID *id.ID `json:"paymentMethodId"`
	CurrencyID      *id.ID `json:"currencyId"`

	Description string `json:"description"`
	Settled     bool   `json:"settled"`

	Details []DetailRequest `json:"details" binding:"required"`
}

// ToInput converts the DTO to the service input.
func (r *CreateTransactionRequest) ToInput() ledger.CreateInput {
	in := ledger.CreateInput{
		Type:            ledger.Type(r.Type),
		Date:            r.Date,
		PersonID:        r.PersonID,
		ProjectID:       r.ProjectID,
		PaymentFormID:   r.PaymentFormID,
		PaymentMethodID: r.PaymentMethodID,
		CurrencyID:      r.CurrencyID,
		Description:     r.Description,
		Settled:         r.Settled,
	}
	for _, d := range r.Details {
		in.Details = append(in.Details, ledger.DetailInput{
			ConceptID:   d.ConceptID,
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitAmount:  d.UnitAmount,
			Total:       d.Total,
		})
	}
	return in
}

// RegisterPaymentRequest is the request body for registering a payment
// against a transaction's open balance.
type RegisterPaymentRequest struct {
	Amount          types.Money `json:"amount" binding:"required"`
	Date            time.Time   `json:"date"`
	PaymentFormID   *id.ID      `json:"paymentFormId"`
	PaymentMethodID *id.ID      `json:"paymentMethodId"`
	Description     string      `json:"description"`
}

// ToInput converts the DTO to the service input.
func (r *RegisterPaymentRequest) ToInput() ledger.PaymentInput {
	return ledger.PaymentInput{
		Amount:          r.Amount,
		Date:            r.Date,
		PaymentFormID:   r.PaymentFormID,
		PaymentMethodID: r.PaymentMethodID,
		Description:     r.Description,
	}
}

// MovementRequest is the request body for a bank deposit or internal
// transfer between two payment forms.
type MovementRequest struct {
	Amount            types.Money `json:"amount" binding:"required"`
	Date              time.Time   `json:"date"`
	FromPaymentFormID id.ID       `json:"fromPaymentFormId" binding:"required"`
	ToPaymentFormID   id.ID       `json:"toPaymentFormId" binding:"required"`
	Description       string      `json:"description"`
}

// ToInput converts the DTO to the service input.
func (r *MovementRequest) ToInput() ledger.MovementInput {
	return ledger.MovementInput{
		Amount:            r.Amount,
		Date:              r.Date,
		FromPaymentFormID: r.FromPaymentFormID,
		ToPaymentFormID:   r.ToPaymentFormID,
		Description:       r.Description,
	}
}

// CreateObligationRequest is the request body for an internal obligation.
type CreateObligationRequest struct {
	Date        time.Time   `json:"date"`
	Total       types.Money `json:"total" binding:"required"`
	ConceptID   id.ID       `json:"conceptId" binding:"required"`
	ProjectID   *id.ID      `json:"projectId"`
	Description string      `json:"description"`
}

// ToInput converts the DTO to the service input.
func (r *CreateObligationRequest) ToInput() ledger.ObligationInput {
	return ledger.ObligationInput{
		Date:        r.Date,
		Total:       r.Total,
		ConceptID:   r.ConceptID,
		ProjectID:   r.ProjectID,
		Description: r.Description,
	}
}

// UpdateObligationRequest adjusts an obligation's total.
type UpdateObligationRequest struct {
	Total       types.Money `json:"total" binding:"required"`
	Description string      `json:"description"`
}

// ReconcileRequest stamps a transaction as matched against a bank
// statement line.
type ReconcileRequest struct {
	ReconciledAt time.Time `json:"reconciledAt"`
}
