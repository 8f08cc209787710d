package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizedAmount(t *testing.T) {
	tests := []struct {
		name      string
		total     string
		isExpense bool
		want      string
	}{
		{"expense stored negative", "-150.00", true, "150.00"},
		{"expense stored positive", "150.00", true, "150.00"},
		{"income untouched", "200.00", false, "200.00"},
		{"negative income untouched", "-200.00", false, "-200.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizedAmount(money(tt.total), tt.isExpense)
			assert.True(t, got.Equal(money(tt.want)), "got %s", got)
		})
	}
}

func TestSignedFlow(t *testing.T) {
	tests := []struct {
		name  string
		typ   Type
		total string
		want  string
	}{
		{"incoming payment adds", TypeIncomingPayment, "100.00", "100.00"},
		{"outgoing payment subtracts", TypeOutgoingPayment, "100.00", "-100.00"},
		{"sale adds", TypeSale, "50.00", "50.00"},
		{"income adds", TypeIncome, "50.00", "50.00"},
		{"expense subtracts", TypeExpense, "50.00", "-50.00"},
		{"purchase subtracts", TypePurchase, "50.00", "-50.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SignedFlow(tt.typ, money(tt.total))
			assert.True(t, got.Equal(money(tt.want)), "got %s", got)
		})
	}
}
