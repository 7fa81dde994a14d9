package domain

import (
	"github.com/shopspring/decimal"
)

// AccountKind defines the behavioural type of an account.
type AccountKind string

const (
	Cash       AccountKind = "cash"
	Savings    AccountKind = "savings"
	Investment AccountKind = "investment"
	CreditCard AccountKind = "credit_card"
	Loan       AccountKind = "loan"
	Debt       AccountKind = "debt"
)

// IsLiability reports whether the account's balance represents money owed.
// Liability balances grow with charges and shrink with payments.
func (k AccountKind) IsLiability() bool {
	switch k {
	case CreditCard, Loan, Debt:
		return true
	default:
		return false
	}
}

// Account represents a financial account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID   string           `json:"accountID"`             // Primary Key (e.g., UUID)
	UserID      string           `json:"userID"`                // FK -> users.user_id (NON-NULL)
	Name        string           `json:"name"`                  // User-defined name
	Kind        AccountKind      `json:"kind"`                  // cash, savings, credit_card, ...
	Balance     decimal.Decimal  `json:"balance"`               // Persisted balance; amount owed for liabilities
	CreditLimit *decimal.Decimal `json:"creditLimit,omitempty"` // Only meaningful for credit_card
	Currency    string           `json:"currency"`
	IsDefault   bool             `json:"isDefault"`
	IsActive    bool             `json:"isActive"` // Soft delete or status flag
	AuditFields
}

// HasCreditLimit reports whether the account carries an enforceable credit limit.
func (a Account) HasCreditLimit() bool {
	return a.Kind == CreditCard && a.CreditLimit != nil && a.CreditLimit.IsPositive()
}
