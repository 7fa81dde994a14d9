package dto

import (
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the payload for creating an account.
type CreateAccountRequest struct {
	Name        string             `json:"name" binding:"required"`
	Kind        domain.AccountKind `json:"kind" binding:"required,oneof=cash savings investment credit_card loan debt"`
	Currency    string             `json:"currency" binding:"required,len=3"`
	CreditLimit *decimal.Decimal   `json:"creditLimit,omitempty"`
	IsDefault   bool               `json:"isDefault"`
	// InitialBalance seeds the balance at creation; zero when omitted.
	InitialBalance *decimal.Decimal `json:"initialBalance,omitempty"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	AccountID   string             `json:"accountID"`
	Name        string             `json:"name"`
	Kind        domain.AccountKind `json:"kind"`
	Balance     decimal.Decimal    `json:"balance"`
	CreditLimit *decimal.Decimal   `json:"creditLimit,omitempty"`
	Currency    string             `json:"currency"`
	IsDefault   bool               `json:"isDefault"`
	IsActive    bool               `json:"isActive"`
}

// ToAccountResponse converts a domain account.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   a.AccountID,
		Name:        a.Name,
		Kind:        a.Kind,
		Balance:     a.Balance,
		CreditLimit: a.CreditLimit,
		Currency:    a.Currency,
		IsDefault:   a.IsDefault,
		IsActive:    a.IsActive,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
