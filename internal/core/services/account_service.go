package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/apperrors"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	portsrepo "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/repositories"
	portssvc "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/services"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// defaultAccountName is used when a default account is provisioned on
// demand during transaction recording.
const defaultAccountName = "Efectivo"

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	if req.CreditLimit != nil && req.Kind != domain.CreditCard {
		return nil, fmt.Errorf("%w: credit limit is only valid for credit_card accounts", apperrors.ErrValidation)
	}
	if req.CreditLimit != nil && req.CreditLimit.IsNegative() {
		return nil, fmt.Errorf("%w: credit limit must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	balance := decimal.Zero
	if req.InitialBalance != nil {
		balance = *req.InitialBalance
	}

	account := domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      userID,
		Name:        req.Name,
		Kind:        req.Kind,
		Balance:     balance,
		CreditLimit: req.CreditLimit,
		Currency:    req.Currency,
		IsDefault:   req.IsDefault,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// First account becomes the default regardless of the request.
	if _, err := s.accountRepo.FindDefaultAccount(ctx, userID); errors.Is(err, apperrors.ErrNotFound) {
		account.IsDefault = true
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("kind", string(account.Kind)))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err // Propagate error (including NotFound)
	}

	// Ownership check: return NotFound to obscure existence from other users.
	if account.UserID != userID {
		s.LogDebug(ctx, "Account found but belongs to different user",
			slog.String("account_id", accountID))
		return nil, apperrors.ErrNotFound
	}

	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list accounts for user %s: %w", userID, err)
	}

	if accounts == nil {
		return []domain.Account{}, nil // Return empty slice if repo returns nil
	}
	return accounts, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, userID string, accountID string) error {
	// First verify that the account exists and belongs to the user
	if _, err := s.GetAccountByID(ctx, userID, accountID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated successfully", slog.String("account_id", accountID))
	return nil
}

// GetOrCreateDefaultAccount returns the user's default account, provisioning
// a cash account on demand when the user has none.
func (s *accountService) GetOrCreateDefaultAccount(ctx context.Context, userID string, currency string) (*domain.Account, error) {
	account, err := s.accountRepo.FindDefaultAccount(ctx, userID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up default account: %w", err)
	}

	created, err := s.CreateAccount(ctx, userID, dto.CreateAccountRequest{
		Name:      defaultAccountName,
		Kind:      domain.Cash,
		Currency:  currency,
		IsDefault: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to provision default account: %w", err)
	}

	s.LogInfo(ctx, "Default account provisioned on demand",
		slog.String("account_id", created.AccountID),
		slog.String("user_id", userID))
	return created, nil
}
