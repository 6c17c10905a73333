package authz

import "time"

// EndpointRule restricts requests matching method+pattern to holders of a role.
// Multiple rules may cover one request; they are evaluated in creation order.
type EndpointRule struct {
	ID         int64
	URLPattern string
	HTTPMethod string
	RoleName   string
	CreatedAt  time.Time
}

// Decision is the outcome of an authorization check. Absence of a grant is a
// Deny value, never an error.
type Decision int

const (
	// Deny rejects the request.
	Deny Decision = iota
	// Allow grants the request.
	Allow
)

// String implements fmt.Stringer for logging and metrics labels.
func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}
