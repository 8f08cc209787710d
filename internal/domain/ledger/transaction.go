// Package ledger implements the transaction ledger: the single table pair
// (transactions + transaction_details) that records sales, purchases,
// income, expenses, payments and internal money movements.
//
// Every transaction carries three monetary columns bound by one invariant:
//
//	total = payments + balance
//
// All mutating operations run inside a single database transaction and lock
// the balance-bearing row with SELECT ... FOR UPDATE before read-modify-write.
package ledger

import (
	"context"
	"time"

	"folio/internal/core/apperror"
	"folio/internal/core/entity"
	"folio/internal/core/id"
	"folio/internal/core/types"
)

// Type classifies a transaction.
type Type int16

const (
	TypeSale            Type = 1
	TypeExpense         Type = 2
	TypeIncome          Type = 3
	TypePurchase        Type = 4
	TypeOutgoingPayment Type = 5
	TypeIncomingPayment Type = 6
)

// String returns the wire name of the type.
func (t Type) String() string {
	switch t {
	case TypeSale:
		return "sale"
	case TypeExpense:
		return "expense"
	case TypeIncome:
		return "income"
	case TypePurchase:
		return "purchase"
	case TypeOutgoingPayment:
		return "outgoing_payment"
	case TypeIncomingPayment:
		return "incoming_payment"
	}
	return "unknown"
}

// Valid reports whether the type is one of the six known classifications.
func (t Type) Valid() bool {
	return t >= TypeSale && t <= TypeIncomingPayment
}

// IsPayment reports whether the type is a money movement leg.
func (t Type) IsPayment() bool {
	return t == TypeOutgoingPayment || t == TypeIncomingPayment
}

// IsReceivable reports whether transactions of this type are owed TO the
// account (payments against them come in).
func (t Type) IsReceivable() bool {
	return t == TypeSale || t == TypeIncome
}

// IsPayable reports whether transactions of this type are owed BY the
// account (payments against them go out).
func (t Type) IsPayable() bool {
	return t == TypePurchase || t == TypeExpense
}

// Transaction is a row in the transactions table.
type Transaction struct {
	entity.BaseDocument

	// Reference is the auto-generated human-readable number (TRX-2026-00001).
	Reference string `db:"reference" json:"reference"`

	Type Type      `db:"type" json:"type"`
	Date time.Time `db:"date" json:"date"`

	PersonID        *id.ID `db:"person_id" json:"personId,omitempty"`
	ProjectID       *id.ID `db:"project_id" json:"projectId,omitempty"`
	PaymentFormID   *id.ID `db:"payment_form_id" json:"paymentFormId,omitempty"`
	PaymentMethodID *id.ID `db:"payment_method_id" json:"paymentMethodId,omitempty"`
	CurrencyID      *id.ID `db:"currency_id" json:"currencyId,omitempty"`

	Description string `db:"description" json:"description,omitempty"`

	// Monetary state. The invariant total = payments + balance holds for
	// every persisted row.
	Total    types.Money `db:"total" json:"total"`
	Payments types.Money `db:"payments" json:"payments"`
	Balance  types.Money `db:"balance" json:"balance"`

	IsActive     bool       `db:"is_active" json:"isActive"`
	IsReconciled bool       `db:"is_reconciled" json:"isReconciled"`
	ReconciledAt *time.Time `db:"reconciled_at" json:"reconciledAt,omitempty"`

	// Compound movement flags. A bank deposit or internal transfer is a
	// pair of legs; the incoming leg carries SourceTransactionID pointing
	// at the outgoing leg.
	IsDeposit            bool   `db:"is_deposit" json:"isDeposit"`
	IsInternalTransfer   bool   `db:"is_internal_transfer" json:"isInternalTransfer"`
	IsInternalObligation bool   `db:"is_internal_obligation" json:"isInternalObligation"`
	SourceTransactionID  *id.ID `db:"source_transaction_id" json:"sourceTransactionId,omitempty"`

	// Details are persisted in transaction_details, loaded on demand.
	Details []TransactionDetail `db:"-" json:"details,omitempty"`
}

// TransactionDetail is a row in the transaction_details table.
type TransactionDetail struct {
	ID            id.ID `db:"id" json:"id"`
	AccountID     id.ID `db:"account_id" json:"-"`
	TransactionID id.ID `db:"transaction_id" json:"transactionId"`
	ConceptID     id.ID `db:"concept_id" json:"conceptId"`

	Description string      `db:"description" json:"description,omitempty"`
	Quantity    types.Money `db:"quantity" json:"quantity"`
	UnitAmount  types.Money `db:"unit_amount" json:"unitAmount"`
	Total       types.Money `db:"total" json:"total"`

	// TransactionPaidID is set on payment details only: it points at the
	// transaction the payment settles.
	TransactionPaidID *id.ID `db:"transaction_paid_id" json:"transactionPaidId,omitempty"`
}

// NewTransaction creates a transaction shell with generated ID and timestamps.
func NewTransaction(t Type, date time.Time) *Transaction {
	return &Transaction{
		BaseDocument: entity.NewBaseDocument(),
		Type:         t,
		Date:         date,
		IsActive:     true,
	}
}

// NewDetail creates a detail line for a transaction.
func NewDetail(transactionID, conceptID id.ID, total types.Money) TransactionDetail {
	return TransactionDetail{
		ID:            id.New(),
		TransactionID: transactionID,
		ConceptID:     conceptID,
		Quantity:      types.MustMoney("1"),
		UnitAmount:    total,
		Total:         total,
	}
}

// IsCompound reports whether the transaction is a leg of a deposit or an
// internal transfer. Compound legs are deactivated through the group call.
func (t *Transaction) IsCompound() bool {
	return t.IsDeposit || t.IsInternalTransfer
}

// IsSettled reports whether the transaction has no open balance.
func (t *Transaction) IsSettled() bool {
	return t.Balance.IsZero()
}

// MarkSettled sets payments = total and balance = 0.
func (t *Transaction) MarkSettled() {
	t.Payments = t.Total
	t.Balance = types.Zero()
}

// MarkCredit sets payments = 0 and balance = total.
func (t *Transaction) MarkCredit() {
	t.Payments = types.Zero()
	t.Balance = t.Total
}

// ApplyPayment moves amount from balance to payments.
// Callers validate the amount against the balance first.
func (t *Transaction) ApplyPayment(amount types.Money) {
	t.Payments = t.Payments.Add(amount)
	t.Balance = t.Balance.Sub(amount)
}

// CheckAmounts verifies the total = payments + balance invariant.
func (t *Transaction) CheckAmounts() error {
	if !types.MoneyEqual(t.Total, t.Payments.Add(t.Balance)) {
		return apperror.NewValidation("transaction amounts do not balance").
			WithDetail("total", t.Total.String()).
			WithDetail("payments", t.Payments.String()).
			WithDetail("balance", t.Balance.String())
	}
	return nil
}

// Validate implements entity.Validatable.
func (t *Transaction) Validate(ctx context.Context) error {
	if !t.Type.Valid() {
		return apperror.NewValidation("unknown transaction type").
			WithDetail("type", int(t.Type))
	}
	if t.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if t.Total.IsNegative() && !t.Type.IsPayment() {
		return apperror.NewValidation("total must not be negative").
			WithDetail("total", t.Total.String())
	}
	return t.CheckAmounts()
}
