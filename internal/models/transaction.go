package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database representation of a financial event.
// Amount is NUMERIC in the database; never a binary float.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	UserID          string          `db:"user_id"`
	AccountID       string          `db:"account_id"`
	CategoryID      string          `db:"category_id"`
	Type            string          `db:"type"`
	Amount          decimal.Decimal `db:"amount"`
	Currency        string          `db:"currency"`
	Description     string          `db:"description"`
	Status          string          `db:"status"`
	DetectedByAI    bool            `db:"detected_by_ai"`
	ConfidenceScore float64         `db:"confidence_score"`
	TransactionDate time.Time       `db:"transaction_date"`
	AuditFields
}
