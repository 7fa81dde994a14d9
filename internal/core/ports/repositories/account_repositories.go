package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByUser retrieves all active accounts owned by a user.
	FindAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)

	// FindDefaultAccount retrieves the user's default account, or
	// apperrors.ErrNotFound if none is flagged.
	FindDefaultAccount(ctx context.Context, userID string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive. Accounts are never
	// hard-deleted while transactions reference them.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountBalanceSupport defines the atomic balance mutation contract.
type AccountBalanceSupport interface {
	// ApplyBalanceDeltaInTx adds delta to the account balance as a single
	// atomic statement (balance = balance + delta, never read-then-write)
	// within the given database transaction, so the balance change commits
	// or rolls back together with the transaction row it belongs to.
	// When enforceLimit is true the update is guarded against the account's
	// credit limit and apperrors.ErrConflict is returned if the projected
	// balance would exceed it.
	ApplyBalanceDeltaInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, enforceLimit bool, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
// This is a facade for clients that need access to all operations.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceSupport
}
