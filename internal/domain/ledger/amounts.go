package ledger

import (
	"folio/internal/core/types"
)

// NormalizedAmount returns the reporting magnitude of a detail total.
//
// Historically expense amounts were captured with inconsistent signs
// (some negative, some positive). All report aggregation goes through this
// one function so the convention lives in exactly one place: expense
// concepts contribute their absolute value, everything else contributes
// the stored value unchanged.
func NormalizedAmount(total types.Money, isExpense bool) types.Money {
	if isExpense {
		return total.Abs()
	}
	return total
}

// SignedFlow returns the cash flow contribution of a transaction on a
// payment form. Money leaving the account subtracts: outgoing payments,
// and expenses or purchases settled directly on the form. Everything else
// (sales, income, incoming payments) adds. Used by the bank reconciliation
// aggregator.
func SignedFlow(t Type, total types.Money) types.Money {
	if t == TypeOutgoingPayment || t.IsPayable() {
		return total.Neg()
	}
	return total
}
