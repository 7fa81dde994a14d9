package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/apperrors"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	portsrepo "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/repositories"
	portssvc "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/services"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/dto"
)

var (
	// ErrAccountNotFound is returned when an explicit account ID does not
	// exist or does not belong to the requesting user.
	ErrAccountNotFound = errors.New("account not found")

	// ErrCreditLimitExceeded refuses an expense that would push a credit
	// card balance past its limit. Never silently downgraded.
	ErrCreditLimitExceeded = errors.New("credit limit exceeded")

	// ErrInvalidAmount rejects non-positive transaction amounts.
	ErrInvalidAmount = errors.New("transaction amount must be positive")

	// ErrInvalidTransactionType rejects types other than income/expense.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidStatus rejects creation statuses other than pending/completed.
	ErrInvalidStatus = errors.New("invalid transaction status at creation")

	// ErrCategoryResolution wraps failures while finding or creating the
	// transaction's category (not low classification confidence).
	ErrCategoryResolution = errors.New("category resolution failed")
)

// ledgerService turns a classified financial event into a durable,
// balance-consistent state change across accounts.
type ledgerService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	txnRepo      portsrepo.TransactionRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
	userRepo     portsrepo.UserRepositoryFacade
	txManager    portsrepo.TransactionManager
	accountSvc   portssvc.AccountSvcFacade
	classifier   portssvc.TransactionClassifier
	reconciler   portssvc.ReconciliationSvc
	streak       portssvc.StreakSvc
}

// NewLedgerService creates the ledger core. All collaborators are injected;
// there are no ambient singletons.
func NewLedgerService(
	accountRepo portsrepo.AccountRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	txManager portsrepo.TransactionManager,
	accountSvc portssvc.AccountSvcFacade,
	classifier portssvc.TransactionClassifier,
	reconciler portssvc.ReconciliationSvc,
	streak portssvc.StreakSvc,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo:  accountRepo,
		txnRepo:      txnRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		txManager:    txManager,
		accountSvc:   accountSvc,
		classifier:   classifier,
		reconciler:   reconciler,
		streak:       streak,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// RecordTransaction implements the full recording algorithm:
// reconciliation-first for completed expenses, category and account
// resolution, credit-limit gate, persistence, exactly-once balance
// mutation and streak update.
func (s *ledgerService) RecordTransaction(ctx context.Context, userID string, req dto.RecordTransactionRequest) (*dto.TransactionResult, error) {
	// --- Validation ---
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, req.Amount.String())
	}
	if req.Type != domain.Income && req.Type != domain.Expense {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTransactionType, req.Type)
	}
	status := req.Status
	if status == "" {
		status = domain.StatusCompleted
	}
	if status != domain.StatusPending && status != domain.StatusCompleted {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	now := time.Now().UTC()
	effectiveDate := req.TransactionDate
	if effectiveDate.IsZero() {
		effectiveDate = now
	}

	// --- Reconciliation first: a completed expense may settle a debt ---
	if req.Type == domain.Expense && status == domain.StatusCompleted {
		result, err := s.tryResolvePending(ctx, user, req, now)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}

	// --- Resolve category ---
	category, detectedByAI, confidence, err := s.resolveCategory(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	// --- Resolve target account ---
	account, err := s.resolveAccount(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	// --- Credit-limit gate (refuse before any mutation) ---
	if req.Type == domain.Expense && account.HasCreditLimit() {
		projected := account.Balance.Add(req.Amount)
		if projected.GreaterThan(*account.CreditLimit) {
			s.LogWarn(ctx, "Expense refused: credit limit exceeded",
				slog.String("account_id", account.AccountID),
				slog.String("balance", account.Balance.String()),
				slog.String("amount", req.Amount.String()),
				slog.String("credit_limit", account.CreditLimit.String()))
			return nil, fmt.Errorf("%w: projected balance %s exceeds limit %s",
				ErrCreditLimitExceeded, projected.String(), account.CreditLimit.String())
		}
	}

	// --- Persist the transaction row ---
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		UserID:          userID,
		AccountID:       account.AccountID,
		CategoryID:      category.CategoryID,
		Type:            req.Type,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Description:     req.Description,
		Status:          status,
		DetectedByAI:    detectedByAI,
		ConfidenceScore: confidence,
		TransactionDate: effectiveDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if status == domain.StatusCompleted {
		// Completed rows mutate a balance; row and mutation must commit or
		// roll back together.
		if err := s.persistCompleted(ctx, txn, account, now); err != nil {
			return nil, err
		}
	} else {
		// Pending rows carry no balance effect; a plain insert is enough.
		if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
			s.LogError(ctx, err, "Failed to save transaction",
				slog.String("transaction_id", txn.TransactionID))
			return nil, fmt.Errorf("%w: failed to save transaction: %v", apperrors.ErrPersistence, err)
		}
	}

	// --- Streak update ---
	var feedback *dto.StreakFeedback
	if status == domain.StatusCompleted {
		feedback, err = s.streak.RegisterActivity(ctx, user, effectiveDate)
		if err != nil {
			// The transaction is already durable; losing the streak update
			// must not fail the recording.
			s.LogWarn(ctx, "Streak update failed after transaction recorded",
				slog.String("transaction_id", txn.TransactionID),
				slog.String("error", err.Error()))
			feedback = nil
		}
	}

	s.LogInfo(ctx, "Transaction recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("status", string(txn.Status)),
		slog.String("amount", txn.Amount.String()))

	return &dto.TransactionResult{
		TransactionID:   txn.TransactionID,
		Type:            txn.Type,
		Amount:          txn.Amount,
		Currency:        txn.Currency,
		Description:     txn.Description,
		Status:          txn.Status,
		CategoryName:    category.Name,
		CategoryIcon:    category.Icon,
		AccountID:       account.AccountID,
		AccountName:     account.Name,
		DetectedByAI:    txn.DetectedByAI,
		ConfidenceScore: txn.ConfidenceScore,
		TransactionDate: txn.TransactionDate,
		Streak:          feedback,
	}, nil
}

// persistCompleted writes the transaction row and applies its balance delta
// inside a single database transaction, so a completed row can never become
// durable without its balance effect.
func (s *ledgerService) persistCompleted(ctx context.Context, txn domain.Transaction, account *domain.Account, now time.Time) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin transaction",
			slog.String("transaction_id", txn.TransactionID))
		return err
	}
	defer func() { _ = s.txManager.Rollback(ctx, tx) }()

	if err := s.txnRepo.SaveTransactionInTx(ctx, tx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction",
			slog.String("transaction_id", txn.TransactionID))
		return fmt.Errorf("%w: failed to save transaction: %v", apperrors.ErrPersistence, err)
	}

	delta := txn.BalanceDelta(account.Kind)
	enforceLimit := txn.Type == domain.Expense && account.HasCreditLimit()
	if err := s.accountRepo.ApplyBalanceDeltaInTx(ctx, tx, account.AccountID, delta, enforceLimit, txn.UserID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// A concurrent charge consumed the headroom between our pre-check
			// and the guarded update. Keep the refused row for the audit
			// trail, marked failed, and refuse this recording too.
			if stErr := s.txnRepo.UpdateTransactionStatusInTx(ctx, tx, txn.TransactionID, domain.StatusFailed, txn.UserID, now); stErr != nil {
				s.LogError(ctx, stErr, "Failed to mark refused transaction as failed",
					slog.String("transaction_id", txn.TransactionID))
				return fmt.Errorf("%w: concurrent charge exhausted the limit", ErrCreditLimitExceeded)
			}
			if cErr := s.txManager.Commit(ctx, tx); cErr != nil {
				s.LogError(ctx, cErr, "Failed to commit refused transaction",
					slog.String("transaction_id", txn.TransactionID))
			}
			return fmt.Errorf("%w: concurrent charge exhausted the limit", ErrCreditLimitExceeded)
		}
		s.LogError(ctx, err, "Failed to apply balance delta",
			slog.String("account_id", account.AccountID))
		return fmt.Errorf("%w: failed to apply balance change: %v", apperrors.ErrPersistence, err)
	}

	return s.txManager.Commit(ctx, tx)
}

// tryResolvePending consults the reconciliation matcher and, on a hit,
// completes the matched pending transaction instead of creating a new row.
// Returns (nil, nil) when recording should proceed normally.
func (s *ledgerService) tryResolvePending(ctx context.Context, user *domain.User, req dto.RecordTransactionRequest, now time.Time) (*dto.TransactionResult, error) {
	match, err := s.reconciler.FindPendingMatch(ctx, user.UserID, req.Amount, req.Description)
	if err != nil {
		s.LogWarn(ctx, "Pending match lookup failed, recording fresh transaction",
			slog.String("error", err.Error()))
		return nil, nil
	}
	if match == nil {
		return nil, nil
	}

	account, err := s.accountRepo.FindAccountByID(ctx, match.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Matched pending transaction references missing account",
			slog.String("transaction_id", match.TransactionID),
			slog.String("account_id", match.AccountID))
		return nil, nil
	}

	if err := s.reconciler.ResolveMatch(ctx, match, account, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost the settlement race; record a fresh transaction instead.
			return nil, nil
		}
		return nil, err
	}

	var categoryName, categoryIcon string
	if category, catErr := s.categoryRepo.FindCategoryByID(ctx, match.CategoryID); catErr == nil {
		categoryName = category.Name
		categoryIcon = category.Icon
	}

	feedback, err := s.streak.RegisterActivity(ctx, user, now)
	if err != nil {
		s.LogWarn(ctx, "Streak update failed after settlement",
			slog.String("transaction_id", match.TransactionID),
			slog.String("error", err.Error()))
		feedback = nil
	}

	return &dto.TransactionResult{
		TransactionID:      match.TransactionID,
		Type:               match.Type,
		Amount:             match.Amount,
		Currency:           match.Currency,
		Description:        match.Description,
		Status:             domain.StatusCompleted,
		CategoryName:       categoryName,
		CategoryIcon:       categoryIcon,
		AccountID:          account.AccountID,
		AccountName:        account.Name,
		DetectedByAI:       match.DetectedByAI,
		ConfidenceScore:    match.ConfidenceScore,
		TransactionDate:    now,
		WasPendingResolved: true,
		Streak:             feedback,
	}, nil
}

// resolveCategory finds or creates the transaction's category, classifying
// the description when the caller did not name one.
func (s *ledgerService) resolveCategory(ctx context.Context, userID string, req dto.RecordTransactionRequest) (*domain.Category, bool, float64, error) {
	name := ""
	detectedByAI := false
	confidence := 0.0

	if req.CategoryName != nil && strings.TrimSpace(*req.CategoryName) != "" {
		name = strings.TrimSpace(*req.CategoryName)
	} else {
		result := s.classifier.Classify(ctx, req.Description)
		name = result.Category
		if name == "" {
			name = domain.DefaultCategoryName
		}
		detectedByAI = result.IsConclusive()
		confidence = result.Confidence
		s.LogDebug(ctx, "Description classified",
			slog.String("category", name),
			slog.Float64("confidence", result.Confidence),
			slog.String("source", string(result.Source)))
	}

	category, err := s.categoryRepo.FindOrCreateCategory(ctx, userID, name, req.Type, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find or create category", slog.String("name", name))
		return nil, false, 0, fmt.Errorf("%w: %v", ErrCategoryResolution, err)
	}
	return category, detectedByAI, confidence, nil
}

// resolveAccount picks the target account in priority order: explicit ID,
// case-insensitive name hint (preferring, for expenses, an account whose
// balance covers the amount), then the default account created on demand.
func (s *ledgerService) resolveAccount(ctx context.Context, userID string, req dto.RecordTransactionRequest) (*domain.Account, error) {
	if req.AccountID != nil && *req.AccountID != "" {
		account, err := s.accountRepo.FindAccountByID(ctx, *req.AccountID)
		if err != nil || account.UserID != userID {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, *req.AccountID)
		}
		return account, nil
	}

	if req.AccountHint != nil && strings.TrimSpace(*req.AccountHint) != "" {
		hint := strings.ToLower(strings.TrimSpace(*req.AccountHint))
		accounts, err := s.accountRepo.FindAccountsByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts for hint matching: %w", err)
		}

		var candidates []domain.Account
		for _, acc := range accounts {
			if strings.Contains(strings.ToLower(acc.Name), hint) {
				candidates = append(candidates, acc)
			}
		}
		if len(candidates) > 0 {
			if req.Type == domain.Expense {
				for i := range candidates {
					c := candidates[i]
					if !c.Kind.IsLiability() && c.Balance.GreaterThanOrEqual(req.Amount) {
						return &c, nil
					}
				}
			}
			return &candidates[0], nil
		}
		s.LogDebug(ctx, "Account hint matched nothing, falling back to default",
			slog.String("hint", hint))
	}

	account, err := s.accountSvc.GetOrCreateDefaultAccount(ctx, userID, req.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default account: %w", err)
	}
	return account, nil
}

// ListTransactions returns a page of the user's transactions, newest first.
func (s *ledgerService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20 // Default limit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	transactions, err := s.txnRepo.ListTransactionsByUser(ctx, userID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}
	return transactions, nil
}
