package services

import (
	"context"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/dto"
)

// AccountSvcFacade exposes account lifecycle and resolution operations.
type AccountSvcFacade interface {
	// CreateAccount creates an account owned by the user.
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)

	// GetAccountByID fetches an account, returning apperrors.ErrNotFound when
	// it does not exist or belongs to a different user.
	GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error)

	// ListAccounts returns the user's active accounts.
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)

	// DeactivateAccount soft-deactivates an account.
	DeactivateAccount(ctx context.Context, userID string, accountID string) error

	// GetOrCreateDefaultAccount returns the user's default account, creating
	// a cash account on demand when none exists.
	GetOrCreateDefaultAccount(ctx context.Context, userID string, currency string) (*domain.Account, error)
}
