package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/apperrors"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	portsrepo "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/repositories"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/models"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// NewTransactionRepository creates a new repository for transaction data.
func NewTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, user_id, account_id, category_id, type, amount, currency, description, status, detected_by_ai, confidence_score, transaction_date, created_at, created_by, last_updated_at, last_updated_by`

func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		UserID:          d.UserID,
		AccountID:       d.AccountID,
		CategoryID:      d.CategoryID,
		Type:            string(d.Type),
		Amount:          d.Amount,
		Currency:        d.Currency,
		Description:     d.Description,
		Status:          string(d.Status),
		DetectedByAI:    d.DetectedByAI,
		ConfidenceScore: d.ConfidenceScore,
		TransactionDate: d.TransactionDate,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		UserID:          m.UserID,
		AccountID:       m.AccountID,
		CategoryID:      m.CategoryID,
		Type:            domain.TransactionType(m.Type),
		Amount:          m.Amount,
		Currency:        m.Currency,
		Description:     m.Description,
		Status:          domain.TransactionStatus(m.Status),
		DetectedByAI:    m.DetectedByAI,
		ConfidenceScore: m.ConfidenceScore,
		TransactionDate: m.TransactionDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanTransactionRow(row pgx.Row) (*domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.AccountID,
		&m.CategoryID,
		&m.Type,
		&m.Amount,
		&m.Currency,
		&m.Description,
		&m.Status,
		&m.DetectedByAI,
		&m.ConfidenceScore,
		&m.TransactionDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	txn := toDomainTransaction(m)
	return &txn, nil
}

// SaveTransaction inserts a new transaction row outside any caller-managed
// transaction. Pending rows take this path; they have no balance effect.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return r.insertTransaction(ctx, r.Pool, txn)
}

// SaveTransactionInTx inserts a new transaction row within the given
// database transaction, so the row and its balance mutation commit or roll
// back together.
func (r *PgxTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	return r.insertTransaction(ctx, tx, txn)
}

func (r *PgxTransactionRepository) insertTransaction(ctx context.Context, q dbExec, txn domain.Transaction) error {
	m := toModelTransaction(txn)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := q.Exec(ctx, query,
		m.TransactionID,
		m.UserID,
		m.AccountID,
		m.CategoryID,
		m.Type,
		m.Amount,
		m.Currency,
		m.Description,
		m.Status,
		m.DetectedByAI,
		m.ConfidenceScore,
		m.TransactionDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: transaction with ID %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a specific transaction by its unique identifier.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	txn, err := scanTransactionRow(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	return txn, nil
}

// FindPendingByUser retrieves the user's pending transactions, earliest first.
func (r *PgxTransactionRepository) FindPendingByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at ASC;
	`

	rows, err := r.Pool.Query(ctx, query, userID, string(domain.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransactionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending transaction row for user %s: %w", userID, err)
		}
		txns = append(txns, *txn)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating pending transaction rows for user %s: %w", userID, rows.Err())
	}
	return txns, nil
}

// ListTransactionsByUser retrieves a page of the user's transactions, newest first.
func (r *PgxTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, limit int, offset int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $2 OFFSET $3;
	`

	rows, err := r.Pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransactionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row for user %s: %w", userID, err)
		}
		txns = append(txns, *txn)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction rows for user %s: %w", userID, rows.Err())
	}
	return txns, nil
}

// UpdateTransactionStatusInTx sets the status of a transaction within the
// caller's database transaction.
func (r *PgxTransactionRepository) UpdateTransactionStatusInTx(ctx context.Context, tx pgx.Tx, transactionID string, status domain.TransactionStatus, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1;
	`

	cmdTag, err := tx.Exec(ctx, query, transactionID, string(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CompletePendingInTx transitions a transaction from pending to completed
// within the caller's database transaction. The status predicate in the
// WHERE clause means exactly one of two concurrent settlements can claim the
// row; the loser gets apperrors.ErrConflict.
func (r *PgxTransactionRepository) CompletePendingInTx(ctx context.Context, tx pgx.Tx, transactionID string, completedAt time.Time, userID string) error {
	query := `
		UPDATE transactions
		SET status = $2, transaction_date = $3, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND status = $5;
	`

	cmdTag, err := tx.Exec(ctx, query,
		transactionID,
		string(domain.StatusCompleted),
		completedAt,
		userID,
		string(domain.StatusPending),
	)
	if err != nil {
		return fmt.Errorf("failed to complete pending transaction %s: %w", transactionID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Distinguish "missing row" from "already settled", reading through
		// the same transaction.
		var status string
		if findErr := tx.QueryRow(ctx, `SELECT status FROM transactions WHERE transaction_id = $1;`, transactionID).Scan(&status); findErr != nil {
			if errors.Is(findErr, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to check transaction status after completion attempt for %s: %w", transactionID, findErr)
		}
		return fmt.Errorf("%w: transaction %s is no longer pending", apperrors.ErrConflict, transactionID)
	}
	return nil
}
