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

type PgxUserRepository struct {
	BaseRepository
}

// NewUserRepository creates a new repository for user data.
func NewUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, phone_number, name, password_hash, current_streak, last_activity_date, timezone, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func toDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:           m.UserID,
		PhoneNumber:      m.PhoneNumber,
		Name:             m.Name,
		PasswordHash:     m.PasswordHash,
		CurrentStreak:    m.CurrentStreak,
		LastActivityDate: m.LastActivityDate,
		Timezone:         m.Timezone,
		DeletedAt:        m.DeletedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanUserRow(row pgx.Row) (*domain.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.PhoneNumber,
		&m.Name,
		&m.PasswordHash,
		&m.CurrentStreak,
		&m.LastActivityDate,
		&m.Timezone,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	user := toDomainUser(m)
	return &user, nil
}

// FindUserByID retrieves a specific user by its unique identifier.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 AND deleted_at IS NULL;`

	user, err := scanUserRow(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	return user, nil
}

// FindUserByPhone retrieves a user by phone number.
func (r *PgxUserRepository) FindUserByPhone(ctx context.Context, phoneNumber string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone_number = $1 AND deleted_at IS NULL;`

	user, err := scanUserRow(r.Pool.QueryRow(ctx, query, phoneNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by phone: %w", err)
	}
	return user, nil
}

// SaveUser persists a new user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		user.UserID,
		user.PhoneNumber,
		user.Name,
		user.PasswordHash,
		user.CurrentStreak,
		user.LastActivityDate,
		user.Timezone,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
		user.DeletedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation on user_id or phone_number
			return fmt.Errorf("%w: user already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user %s: %w", user.UserID, err)
	}
	return nil
}

// UpdateStreak persists the user's streak counter and last activity date.
func (r *PgxUserRepository) UpdateStreak(ctx context.Context, userID string, streak int, lastActivityDate time.Time, now time.Time) error {
	query := `
		UPDATE users
		SET current_streak = $2, last_activity_date = $3, last_updated_at = $4, last_updated_by = $1
		WHERE user_id = $1 AND deleted_at IS NULL;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, userID, streak, lastActivityDate, now)
	if err != nil {
		return fmt.Errorf("failed to update streak for user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
