package shared

// Well-known role names. Roles are convention-prefixed in the database and in
// endpoint rules; the constants below are the only ones the policy layer
// reasons about, additional roles participate in rule matching untouched.
const (
	RoleSuperAdmin = "ROLE_SUPER_ADMIN"
	RoleAdmin      = "ROLE_ADMIN"
	RoleModerator  = "ROLE_MODERATOR"
	RoleUser       = "ROLE_USER"
)

// RolePrecedence orders the well-known roles from highest to lowest authority.
func RolePrecedence() []string {
	return []string{RoleSuperAdmin, RoleAdmin, RoleModerator, RoleUser}
}
