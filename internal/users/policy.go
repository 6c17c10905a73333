package users

import (
	"fmt"

	"github.com/gatewarden/gatewarden/internal/auth"
	"github.com/gatewarden/gatewarden/internal/shared"
)

// HighestRole returns the single highest-priority role among directRoles,
// using the fixed precedence SUPER_ADMIN > ADMIN > MODERATOR > USER. Ties are
// resolved by this precedence, never by count. Unknown roles rank below USER.
func HighestRole(directRoles []string) string {
	held := make(map[string]struct{}, len(directRoles))
	for _, role := range directRoles {
		held[role] = struct{}{}
	}
	for _, role := range shared.RolePrecedence() {
		if _, ok := held[role]; ok {
			return role
		}
	}
	return shared.RoleUser
}

// checkManageable enforces the layered management policy: which role sets an
// actor may create, modify or delete. The decision deliberately reads the
// actor's DirectRoles, not hierarchy-expanded ones, so inherited authority
// never widens management rights.
//
// MODERATOR may only manage plain users; ADMIN may manage anything below
// ADMIN; SUPER_ADMIN is unrestricted.
func checkManageable(actor *auth.Principal, targetRoles []string) error {
	if actor.IsAnonymous() {
		return shared.ErrInvalidPrincipal
	}
	switch HighestRole(actor.DirectRoles) {
	case shared.RoleSuperAdmin:
		return nil
	case shared.RoleAdmin:
		for _, role := range targetRoles {
			if role == shared.RoleAdmin || role == shared.RoleSuperAdmin {
				return fmt.Errorf("admin cannot manage admins or super admins: %w", shared.ErrForbidden)
			}
		}
		return nil
	case shared.RoleModerator:
		for _, role := range targetRoles {
			if role != shared.RoleUser {
				return fmt.Errorf("moderator can only manage users: %w", shared.ErrForbidden)
			}
		}
		return nil
	default:
		// Plain users never reach the management surface; endpoint rules
		// restrict it to MODERATOR and above.
		return nil
	}
}
