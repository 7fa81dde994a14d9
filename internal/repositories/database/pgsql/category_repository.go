package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/apperrors"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	portsrepo "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/repositories"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/models"
)

type PgxCategoryRepository struct {
	BaseRepository
}

// NewCategoryRepository creates a new repository for category data.
func NewCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categoryColumns = `category_id, user_id, name, type, icon, created_at, created_by, last_updated_at, last_updated_by`

func toDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID: m.CategoryID,
		UserID:     m.UserID,
		Name:       m.Name,
		Type:       domain.TransactionType(m.Type),
		Icon:       m.Icon,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanCategoryRow(row pgx.Row) (*domain.Category, error) {
	var m models.Category
	err := row.Scan(
		&m.CategoryID,
		&m.UserID,
		&m.Name,
		&m.Type,
		&m.Icon,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	cat := toDomainCategory(m)
	return &cat, nil
}

// FindCategoryByID retrieves a specific category by its unique identifier.
func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1;`

	cat, err := scanCategoryRow(r.Pool.QueryRow(ctx, query, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID %s: %w", categoryID, err)
	}
	return cat, nil
}

// ListCategoriesByUser retrieves all categories owned by a user for a given type.
func (r *PgxCategoryRepository) ListCategoriesByUser(ctx context.Context, userID string, txnType domain.TransactionType) ([]domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1 AND type = $2
		ORDER BY name;
	`

	rows, err := r.Pool.Query(ctx, query, userID, string(txnType))
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for user %s: %w", userID, err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		cat, err := scanCategoryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row for user %s: %w", userID, err)
		}
		categories = append(categories, *cat)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating category rows for user %s: %w", userID, rows.Err())
	}
	return categories, nil
}

// FindOrCreateCategory returns the user's category with the given name and
// type, creating it when absent. A concurrent insert of the same (user, type,
// name) is absorbed by re-reading after a unique violation.
func (r *PgxCategoryRepository) FindOrCreateCategory(ctx context.Context, userID string, name string, txnType domain.TransactionType, creatorUserID string) (*domain.Category, error) {
	existing, err := r.findByName(ctx, userID, name, txnType)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	m := models.Category{
		CategoryID: uuid.NewString(),
		UserID:     userID,
		Name:       name,
		Type:       string(txnType),
		AuditFields: models.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	insert := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = r.Pool.Exec(ctx, insert,
		m.CategoryID,
		m.UserID,
		m.Name,
		m.Type,
		m.Icon,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Lost the race; the winning row is what we wanted anyway.
			return r.findByName(ctx, userID, name, txnType)
		}
		return nil, fmt.Errorf("failed to create category %q for user %s: %w", name, userID, err)
	}

	cat := toDomainCategory(m)
	return &cat, nil
}

func (r *PgxCategoryRepository) findByName(ctx context.Context, userID string, name string, txnType domain.TransactionType) (*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1 AND type = $2 AND LOWER(name) = LOWER($3)
		LIMIT 1;
	`

	cat, err := scanCategoryRow(r.Pool.QueryRow(ctx, query, userID, string(txnType), name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category %q for user %s: %w", name, userID, err)
	}
	return cat, nil
}
