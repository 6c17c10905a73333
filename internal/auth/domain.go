package auth

import "time"

// User represents an authenticated user account with its assigned roles.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Roles        []RoleGrant
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoleGrant is a role assigned to a user together with the permissions the
// role owns.
type RoleGrant struct {
	Name        string
	Permissions []string
}
