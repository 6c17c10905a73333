package users

import "time"

// User represents a managed user account. Roles holds the names of the
// directly assigned roles; it is never empty after creation.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
