package models

// Category is the database representation of a user-scoped category.
// (user_id, type, name) is unique.
type Category struct {
	CategoryID string `db:"category_id"`
	UserID     string `db:"user_id"`
	Name       string `db:"name"`
	Type       string `db:"type"`
	Icon       string `db:"icon"`
	AuditFields
}
