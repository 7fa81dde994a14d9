package repositories

import (
	"context"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
)

// CategoryReader defines read operations for category data
type CategoryReader interface {
	// FindCategoryByID retrieves a specific category by its unique identifier.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// ListCategoriesByUser retrieves all categories owned by a user for a
	// given transaction type.
	ListCategoriesByUser(ctx context.Context, userID string, txnType domain.TransactionType) ([]domain.Category, error)
}

// CategoryWriter defines write operations for category data
type CategoryWriter interface {
	// FindOrCreateCategory returns the user's category with the given name
	// and type, creating it when absent. Name is unique per (user, type).
	FindOrCreateCategory(ctx context.Context, userID string, name string, txnType domain.TransactionType, creatorUserID string) (*domain.Category, error)
}

// CategoryRepositoryFacade combines all category-related repository interfaces.
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
