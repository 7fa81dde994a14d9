package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/apperrors"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	portsrepo "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/repositories"
	portssvc "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// amountTolerance is the fuzzy matching window: an incoming settlement
// amount must be within ±10% of the stored pending amount.
var amountTolerance = decimal.NewFromFloat(0.10)

// reconciliationMatcher settles "I already paid for X" messages against
// previously recorded pending debts instead of creating duplicates. The
// matching policy (substring + percentage window) is deliberately isolated
// here so it can be tightened without touching the ledger.
type reconciliationMatcher struct {
	BaseService
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountBalanceSupport
	txManager   portsrepo.TransactionManager
}

// NewReconciliationMatcher creates a matcher over the given repositories.
func NewReconciliationMatcher(txnRepo portsrepo.TransactionRepositoryFacade, accountRepo portsrepo.AccountBalanceSupport, txManager portsrepo.TransactionManager) portssvc.ReconciliationSvc {
	return &reconciliationMatcher{txnRepo: txnRepo, accountRepo: accountRepo, txManager: txManager}
}

var _ portssvc.ReconciliationSvc = (*reconciliationMatcher)(nil)

// FindPendingMatch returns the earliest-created pending transaction whose
// description contains the fragment (case-insensitive) and whose amount is
// within the tolerance window, or nil when nothing matches.
func (m *reconciliationMatcher) FindPendingMatch(ctx context.Context, userID string, amount decimal.Decimal, descriptionFragment string) (*domain.Transaction, error) {
	fragment := strings.ToLower(strings.TrimSpace(descriptionFragment))
	if fragment == "" {
		return nil, nil
	}

	pending, err := m.txnRepo.FindPendingByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending transactions: %w", err)
	}

	var matches []domain.Transaction
	for _, candidate := range pending {
		if !strings.Contains(strings.ToLower(candidate.Description), fragment) {
			continue
		}
		window := candidate.Amount.Mul(amountTolerance)
		if amount.Sub(candidate.Amount).Abs().LessThanOrEqual(window) {
			matches = append(matches, candidate)
		}
	}

	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		// Heuristic pick: failing the user's settlement message is worse
		// than resolving the earliest candidate.
		m.LogWarn(ctx, "Ambiguous pending match, taking earliest",
			slog.Int("candidates", len(matches)),
			slog.String("fragment", fragment))
	}

	// Repo returns candidates ordered by creation time, earliest first.
	match := matches[0]
	return &match, nil
}

// ResolveMatch transitions the matched pending transaction to completed and
// applies its balance mutation exactly once, both inside a single database
// transaction so a settled row can never commit without its balance effect.
// The status transition is conditional on the row still being pending, so two
// concurrent settlements cannot both claim it; the loser gets
// apperrors.ErrConflict.
func (m *reconciliationMatcher) ResolveMatch(ctx context.Context, txn *domain.Transaction, account *domain.Account, now time.Time) error {
	if txn.AccountID != "" && txn.AccountID != account.AccountID {
		return fmt.Errorf("%w: transaction %s is not held by account %s", apperrors.ErrValidation, txn.TransactionID, account.AccountID)
	}

	tx, err := m.txManager.Begin(ctx)
	if err != nil {
		m.LogError(ctx, err, "Failed to begin settlement transaction",
			slog.String("transaction_id", txn.TransactionID))
		return err
	}
	defer func() { _ = m.txManager.Rollback(ctx, tx) }()

	if err := m.txnRepo.CompletePendingInTx(ctx, tx, txn.TransactionID, now, txn.UserID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			m.LogWarn(ctx, "Pending transaction already settled by a concurrent request",
				slog.String("transaction_id", txn.TransactionID))
		}
		return err
	}

	delta := txn.BalanceDelta(account.Kind)
	if err := m.accountRepo.ApplyBalanceDeltaInTx(ctx, tx, account.AccountID, delta, false, txn.UserID, now); err != nil {
		m.LogError(ctx, err, "Failed to apply balance mutation after settlement",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("account_id", account.AccountID))
		return fmt.Errorf("failed to apply settlement balance change: %w", err)
	}

	if err := m.txManager.Commit(ctx, tx); err != nil {
		return err
	}

	txn.Status = domain.StatusCompleted
	txn.TransactionDate = now
	m.LogInfo(ctx, "Pending transaction resolved",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", account.AccountID))
	return nil
}
