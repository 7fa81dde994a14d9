package dto

import (
	"time"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordTransactionRequest is the typed input for LedgerSvcFacade.RecordTransaction.
// Upstream command payloads are decoded into this exactly once, at the boundary.
type RecordTransactionRequest struct {
	Type        domain.TransactionType   `json:"type" binding:"required,oneof=income expense"`
	Amount      decimal.Decimal          `json:"amount" binding:"required"`
	Description string                   `json:"description" binding:"required"`
	// CategoryName skips classification entirely when the user named the category.
	CategoryName *string `json:"categoryName,omitempty"`
	// AccountID wins over AccountHint; both fall back to the default account.
	AccountID   *string                  `json:"accountID,omitempty"`
	AccountHint *string                  `json:"accountHint,omitempty"`
	Currency    string                   `json:"currency" binding:"required,len=3"`
	Status      domain.TransactionStatus `json:"status" binding:"omitempty,oneof=pending completed"`
	// TransactionDate defaults to now when zero.
	TransactionDate time.Time `json:"transactionDate,omitempty"`
}

// StreakFeedback tells the caller how the activity streak moved so it can
// render the right confirmation flavour.
type StreakFeedback struct {
	Current  int    `json:"current"`
	Extended bool   `json:"extended"` // true when the streak grew or restarted
	Message  string `json:"message"`
}

// TransactionResult is the enriched outcome of RecordTransaction.
type TransactionResult struct {
	TransactionID      string                   `json:"transactionID"`
	Type               domain.TransactionType   `json:"type"`
	Amount             decimal.Decimal          `json:"amount"`
	Currency           string                   `json:"currency"`
	Description        string                   `json:"description"`
	Status             domain.TransactionStatus `json:"status"`
	CategoryName       string                   `json:"categoryName"`
	CategoryIcon       string                   `json:"categoryIcon,omitempty"`
	AccountID          string                   `json:"accountID"`
	AccountName        string                   `json:"accountName"`
	DetectedByAI       bool                     `json:"detectedByAI"`
	ConfidenceScore    float64                  `json:"confidenceScore,omitempty"`
	TransactionDate    time.Time                `json:"transactionDate"`
	// WasPendingResolved distinguishes "marked as paid" from "registered".
	WasPendingResolved bool            `json:"wasPendingResolved"`
	Streak             *StreakFeedback `json:"streak,omitempty"`
}

// ListTransactionsParams holds pagination for transaction listings.
type ListTransactionsParams struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}
