package domain

// Category represents a user-scoped transaction category.
// Name is unique per (user, type).
type Category struct {
	CategoryID string          `json:"categoryID"` // Primary Key (e.g., UUID)
	UserID     string          `json:"userID"`     // FK -> users.user_id
	Name       string          `json:"name"`
	Type       TransactionType `json:"type"` // income or expense categories are separate namespaces
	Icon       string          `json:"icon"` // Emoji shown in confirmations
	AuditFields
}

// DefaultCategoryName is the catch-all bucket used when classification
// yields nothing usable.
const DefaultCategoryName = "Other"
