package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/apperrors"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CommandKind enumerates the closed set of commands the assistant's
// tool-calling layer may emit. Anything else is rejected at the boundary.
type CommandKind string

const (
	CommandRecordExpense CommandKind = "record_expense"
	CommandRecordIncome  CommandKind = "record_income"
	CommandCreateAccount CommandKind = "create_account"
)

// Command is the decoded, strongly-typed form of an upstream command blob.
// Exactly one of the payload fields is non-nil, matching Kind.
type Command struct {
	Kind          CommandKind
	Record        *RecordTransactionRequest
	CreateAccount *CreateAccountRequest
}

// rawCommand is the loose wire shape; it exists only inside DecodeCommand.
type rawCommand struct {
	Type        string           `json:"type"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description string           `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Account     *string          `json:"account,omitempty"`
	AccountID   *string          `json:"accountID,omitempty"`
	Currency    string           `json:"currency,omitempty"`
	Pending     bool             `json:"pending,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`

	// create_account fields
	Name           string             `json:"name,omitempty"`
	Kind           domain.AccountKind `json:"kind,omitempty"`
	CreditLimit    *decimal.Decimal   `json:"creditLimit,omitempty"`
	InitialBalance *decimal.Decimal   `json:"initialBalance,omitempty"`
	IsDefault      bool               `json:"isDefault,omitempty"`
}

// DecodeCommand parses an upstream command payload into the closed Command
// type. The dynamic JSON shape is interpreted here and nowhere else; the
// ledger only ever receives typed requests.
func DecodeCommand(data []byte) (*Command, error) {
	var raw rawCommand
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed command payload: %v", apperrors.ErrValidation, err)
	}

	switch CommandKind(raw.Type) {
	case CommandRecordExpense:
		return decodeRecord(raw, domain.Expense)
	case CommandRecordIncome:
		return decodeRecord(raw, domain.Income)
	case CommandCreateAccount:
		if raw.Name == "" || raw.Kind == "" || raw.Currency == "" {
			return nil, fmt.Errorf("%w: create_account requires name, kind and currency", apperrors.ErrValidation)
		}
		return &Command{
			Kind: CommandCreateAccount,
			CreateAccount: &CreateAccountRequest{
				Name:           raw.Name,
				Kind:           raw.Kind,
				Currency:       raw.Currency,
				CreditLimit:    raw.CreditLimit,
				InitialBalance: raw.InitialBalance,
				IsDefault:      raw.IsDefault,
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown command type %q", apperrors.ErrValidation, raw.Type)
	}
}

func decodeRecord(raw rawCommand, txnType domain.TransactionType) (*Command, error) {
	if raw.Amount == nil {
		return nil, fmt.Errorf("%w: %s requires an amount", apperrors.ErrValidation, raw.Type)
	}
	status := domain.StatusCompleted
	if raw.Pending {
		status = domain.StatusPending
	}
	req := &RecordTransactionRequest{
		Type:         txnType,
		Amount:       *raw.Amount,
		Description:  raw.Description,
		CategoryName: raw.Category,
		AccountID:    raw.AccountID,
		AccountHint:  raw.Account,
		Currency:     raw.Currency,
		Status:       status,
	}
	if raw.Date != nil {
		req.TransactionDate = *raw.Date
	}
	kind := CommandRecordExpense
	if txnType == domain.Income {
		kind = CommandRecordIncome
	}
	return &Command{Kind: kind, Record: req}, nil
}
