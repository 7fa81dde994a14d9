package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether money flows into or out of the user's finances.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// TransactionStatus tracks the settlement lifecycle of a transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusCancelled TransactionStatus = "cancelled"
)

// Transaction represents a single financial event, affecting one account.
// A pending transaction never touches the account balance; the balance moves
// exactly once, at the moment the status becomes completed.
type Transaction struct {
	TransactionID   string            `json:"transactionID"` // Primary Key (e.g., UUID)
	UserID          string            `json:"userID"`        // FK -> users.user_id (Not Null)
	AccountID       string            `json:"accountID"`     // FK -> accounts.account_id
	CategoryID      string            `json:"categoryID"`    // FK -> categories.category_id
	Type            TransactionType   `json:"type"`          // income or expense
	Amount          decimal.Decimal   `json:"amount"`        // Positive value; precise decimal type
	Currency        string            `json:"currency"`
	Description     string            `json:"description"`
	Status          TransactionStatus `json:"status"`
	DetectedByAI    bool              `json:"detectedByAI"`
	ConfidenceScore float64           `json:"confidenceScore"`
	TransactionDate time.Time         `json:"transactionDate"`
	AuditFields
}

// BalanceDelta returns the signed amount to add to the owning account's
// balance when this transaction completes.
//
//	asset + income  -> +amount    asset + expense  -> -amount
//	liability + income -> -amount liability + expense -> +amount
func (t Transaction) BalanceDelta(kind AccountKind) decimal.Decimal {
	delta := t.Amount
	if (t.Type == Expense) != kind.IsLiability() {
		delta = delta.Neg()
	}
	return delta
}
