package repositories

import (
	"context"
	"time"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by its unique identifier.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByPhone retrieves a user by the phone number the messaging
	// transport identifies them with.
	FindUserByPhone(ctx context.Context, phoneNumber string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateStreak persists the user's streak counter and last activity date.
	UpdateStreak(ctx context.Context, userID string, streak int, lastActivityDate time.Time, now time.Time) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
