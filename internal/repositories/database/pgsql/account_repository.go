package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/apperrors"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	portsrepo "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/repositories"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/models"
)

type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements the facade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, user_id, name, kind, balance, credit_limit, currency, is_default, is_active, created_at, created_by, last_updated_at, last_updated_by`

// Helper to convert domain.Account to models.Account for DB storage
func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		UserID:      d.UserID,
		Name:        d.Name,
		Kind:        string(d.Kind),
		Balance:     d.Balance,
		CreditLimit: d.CreditLimit,
		Currency:    d.Currency,
		IsDefault:   d.IsDefault,
		IsActive:    d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		UserID:      m.UserID,
		Name:        m.Name,
		Kind:        domain.AccountKind(m.Kind),
		Balance:     m.Balance,
		CreditLimit: m.CreditLimit,
		Currency:    m.Currency,
		IsDefault:   m.IsDefault,
		IsActive:    m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanAccountRow(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.Name,
		&m.Kind,
		&m.Balance,
		&m.CreditLimit,
		&m.Currency,
		&m.IsDefault,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.Name,
		m.Kind,
		m.Balance,
		m.CreditLimit,
		m.Currency,
		m.IsDefault,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	account, err := scanAccountRow(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return account, nil
}

// FindAccountsByUser retrieves all active accounts owned by the user.
func (r *PgxAccountRepository) FindAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY is_default DESC, name;
	`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for user %s: %w", userID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for user %s: %w", userID, err)
		}
		accounts = append(accounts, *account)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows for user %s: %w", userID, rows.Err())
	}
	return accounts, nil
}

// FindDefaultAccount retrieves the user's default account.
func (r *PgxAccountRepository) FindDefaultAccount(ctx context.Context, userID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND is_default = TRUE AND is_active = TRUE
		LIMIT 1;
	`

	account, err := scanAccountRow(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find default account for user %s: %w", userID, err)
	}
	return account, nil
}

// UpdateAccount updates an existing account in the database.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)

	query := `
		UPDATE accounts
		SET name = $2, credit_limit = $3, is_default = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE account_id = $1;
	`
	// Kind, currency, created_at and created_by are immutable here.

	cmdTag, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.CreditLimit,
		m.IsDefault,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update account %s: %w", m.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, is_default = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND is_active = TRUE;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the account doesn't exist or it was already inactive.
		if _, findErr := r.FindAccountByID(ctx, accountID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check account status after deactivation attempt for %s: %w", accountID, findErr)
		}
		return apperrors.ErrValidation
	}
	return nil
}

// ApplyBalanceDeltaInTx adds delta to the account balance in a single atomic
// statement inside the caller's transaction, so the balance change commits
// or rolls back together with the transaction row that caused it. With
// enforceLimit the update refuses to push a positive credit limit past its
// ceiling; the caller sees apperrors.ErrConflict and no mutation happens.
func (r *PgxAccountRepository) ApplyBalanceDeltaInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, enforceLimit bool, userID string, now time.Time) error {
	if delta.IsZero() {
		return nil
	}

	var cmdTag pgconn.CommandTag
	var err error
	if enforceLimit {
		query := `
			UPDATE accounts
			SET balance = COALESCE(balance, 0) + $2, last_updated_at = $3, last_updated_by = $4
			WHERE account_id = $1
			  AND (credit_limit IS NULL OR credit_limit <= 0 OR COALESCE(balance, 0) + $2 <= credit_limit);
		`
		cmdTag, err = tx.Exec(ctx, query, accountID, delta, now, userID)
	} else {
		query := `
			UPDATE accounts
			SET balance = COALESCE(balance, 0) + $2, last_updated_at = $3, last_updated_by = $4
			WHERE account_id = $1;
		`
		cmdTag, err = tx.Exec(ctx, query, accountID, delta, now, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to apply balance delta for account %s: %w", accountID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		if !enforceLimit {
			return fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountID)
		}
		// Distinguish "missing account" from "limit guard refused", reading
		// through the same transaction.
		var exists string
		if findErr := tx.QueryRow(ctx, `SELECT account_id FROM accounts WHERE account_id = $1;`, accountID).Scan(&exists); findErr != nil {
			if errors.Is(findErr, pgx.ErrNoRows) {
				return fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountID)
			}
			return fmt.Errorf("failed to check account after refused balance update for %s: %w", accountID, findErr)
		}
		return fmt.Errorf("%w: balance delta refused by credit limit guard for account %s", apperrors.ErrConflict, accountID)
	}
	return nil
}
