package models

import (
	"github.com/shopspring/decimal"
)

// Account is the database representation of a user account.
// CreditLimit is nullable and only meaningful for credit_card rows.
type Account struct {
	AccountID   string           `db:"account_id"`
	UserID      string           `db:"user_id"`
	Name        string           `db:"name"`
	Kind        string           `db:"kind"`
	Balance     decimal.Decimal  `db:"balance"`
	CreditLimit *decimal.Decimal `db:"credit_limit"` // Nullable
	Currency    string           `db:"currency"`
	IsDefault   bool             `db:"is_default"`
	IsActive    bool             `db:"is_active"`
	AuditFields
}
