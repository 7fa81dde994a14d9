package domain

import "time"

// User represents a user of the assistant in the domain.
// Identity comes from the messaging transport (phone number).
type User struct {
	UserID       string `json:"userID"` // Primary Key (e.g., UUID)
	PhoneNumber  string `json:"phoneNumber"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	// Streak state. LastActivityDate is a civil date (midnight UTC marker)
	// computed in the user's Timezone, never in server-local time.
	CurrentStreak    int        `json:"currentStreak"`
	LastActivityDate *time.Time `json:"lastActivityDate,omitempty"`
	Timezone         string     `json:"timezone"` // IANA name, e.g. America/Bogota
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}
