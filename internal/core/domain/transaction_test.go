package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
)

func TestTransactionBalanceDelta(t *testing.T) {
	amount := decimal.NewFromInt(50000)

	tests := []struct {
		name string
		tx   domain.Transaction
		kind domain.AccountKind
		want decimal.Decimal
	}{
		{"income on asset adds", domain.Transaction{Type: domain.Income, Amount: amount}, domain.Cash, amount},
		{"expense on asset subtracts", domain.Transaction{Type: domain.Expense, Amount: amount}, domain.Savings, amount.Neg()},
		{"expense on credit card grows debt", domain.Transaction{Type: domain.Expense, Amount: amount}, domain.CreditCard, amount},
		{"income on loan shrinks debt", domain.Transaction{Type: domain.Income, Amount: amount}, domain.Loan, amount.Neg()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tx.BalanceDelta(tt.kind)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestAccountKindIsLiability(t *testing.T) {
	assert.False(t, domain.Cash.IsLiability())
	assert.False(t, domain.Savings.IsLiability())
	assert.False(t, domain.Investment.IsLiability())
	assert.True(t, domain.CreditCard.IsLiability())
	assert.True(t, domain.Loan.IsLiability())
	assert.True(t, domain.Debt.IsLiability())
}

func TestAccountHasCreditLimit(t *testing.T) {
	limit := decimal.NewFromInt(500000)
	zero := decimal.Zero

	assert.True(t, domain.Account{Kind: domain.CreditCard, CreditLimit: &limit}.HasCreditLimit())
	assert.False(t, domain.Account{Kind: domain.CreditCard}.HasCreditLimit())
	assert.False(t, domain.Account{Kind: domain.CreditCard, CreditLimit: &zero}.HasCreditLimit())
	// A limit on a non credit card account is ignored.
	assert.False(t, domain.Account{Kind: domain.Cash, CreditLimit: &limit}.HasCreditLimit())
}
