package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindPendingByUser retrieves the user's pending transactions ordered by
	// creation time, earliest first. The matching policy (substring, amount
	// window) lives in the reconciliation matcher, not here.
	FindPendingByUser(ctx context.Context, userID string) ([]domain.Transaction, error)

	// ListTransactionsByUser retrieves a page of the user's transactions,
	// newest first.
	ListTransactionsByUser(ctx context.Context, userID string, limit int, offset int) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new transaction row. Used for pending
	// rows, which never carry a balance mutation.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// SaveTransactionInTx persists a new transaction row within the given
	// database transaction, so the row and its balance mutation commit or
	// roll back together.
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// UpdateTransactionStatusInTx sets the status of a transaction within
	// the given database transaction.
	UpdateTransactionStatusInTx(ctx context.Context, tx pgx.Tx, transactionID string, status domain.TransactionStatus, userID string, now time.Time) error

	// CompletePendingInTx transitions a transaction from pending to
	// completed within the given database transaction, conditionally on its
	// current status so two concurrent settlements cannot both claim the
	// same row. Returns apperrors.ErrConflict when the row is no longer
	// pending.
	CompletePendingInTx(ctx context.Context, tx pgx.Tx, transactionID string, completedAt time.Time, userID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
