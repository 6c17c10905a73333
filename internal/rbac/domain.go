package rbac

import "time"

// Role is an immutable grouping of permissions, identified by name.
// Roles are never deleted while referenced by a user or an endpoint rule.
type Role struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Permission is an atomic capability, identified by name.
type Permission struct {
	ID          int64
	Name        string
	Description string
}
