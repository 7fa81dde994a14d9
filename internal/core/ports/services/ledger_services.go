package services

import (
	"context"
	"time"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade is the single entry point for turning a classified
// financial event into a durable, balance-consistent state change.
type LedgerSvcFacade interface {
	// RecordTransaction persists a transaction for the user, resolving
	// category and account, enforcing credit limits, mutating the balance
	// exactly once on completion and updating the activity streak.
	RecordTransaction(ctx context.Context, userID string, req dto.RecordTransactionRequest) (*dto.TransactionResult, error)

	// ListTransactions returns a page of the user's transactions.
	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, error)
}

// ReconciliationSvc finds and settles previously recorded pending debts so
// an "I already paid for X" message does not create a duplicate row.
type ReconciliationSvc interface {
	// FindPendingMatch returns the earliest pending transaction whose
	// description contains the fragment (case-insensitive) and whose amount
	// is within the matching window, or nil when nothing matches.
	FindPendingMatch(ctx context.Context, userID string, amount decimal.Decimal, descriptionFragment string) (*domain.Transaction, error)

	// ResolveMatch completes the matched pending transaction and applies its
	// balance mutation exactly once. apperrors.ErrConflict signals that a
	// concurrent settlement won the race.
	ResolveMatch(ctx context.Context, txn *domain.Transaction, account *domain.Account, now time.Time) error
}

// StreakSvc computes day-boundary-aware activity streak transitions in the
// user's fixed timezone.
type StreakSvc interface {
	RegisterActivity(ctx context.Context, user *domain.User, effectiveInstant time.Time) (*dto.StreakFeedback, error)
}
