package models

import "time"

// User is the database representation of an assistant user.
type User struct {
	UserID           string     `db:"user_id"`
	PhoneNumber      string     `db:"phone_number"`
	Name             string     `db:"name"`
	PasswordHash     string     `db:"password_hash"`
	CurrentStreak    int        `db:"current_streak"`
	LastActivityDate *time.Time `db:"last_activity_date"` // Civil date, midnight UTC marker
	Timezone         string     `db:"timezone"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
