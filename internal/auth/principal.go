package auth

import (
	"sort"

	"github.com/gatewarden/gatewarden/internal/shared"
)

// AnonymousUsername is the sentinel identity for unauthenticated callers.
const AnonymousUsername = "anonymous"

// Principal is the runtime identity built at authentication time. It carries
// two distinct role views: DirectRoles are the roles actually assigned to the
// user, Authorities the hierarchy-free union of roles and permissions used for
// endpoint checks. Management policy decisions read DirectRoles only, so
// inherited authority can never widen who a principal may manage.
type Principal struct {
	UserID      int64    `json:"user_id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	DirectRoles []string `json:"direct_roles"`
	Authorities []string `json:"authorities"`
}

// IsAnonymous reports whether the principal is absent or the anonymous sentinel.
func (p *Principal) IsAnonymous() bool {
	return p == nil || p.UserID == 0 || p.Username == "" || p.Username == AnonymousUsername
}

// IsSuperAdmin reports whether ROLE_SUPER_ADMIN is directly assigned.
func (p *Principal) IsSuperAdmin() bool {
	if p == nil {
		return false
	}
	for _, role := range p.DirectRoles {
		if role == shared.RoleSuperAdmin {
			return true
		}
	}
	return false
}

// Anonymous returns the sentinel principal for unauthenticated requests.
func Anonymous() *Principal {
	return &Principal{Username: AnonymousUsername}
}

// BuildPrincipal derives the runtime principal from a user record.
//
// Authorities are the user's role names plus permission names. Super-admins
// receive every permission in allPermissionNames (the full catalog, which the
// caller fetches only for them); everyone else gets the deduplicated union of
// the permissions attached to their roles.
func BuildPrincipal(user *User, allPermissionNames []string) *Principal {
	direct := make([]string, 0, len(user.Roles))
	authorities := make(map[string]struct{}, len(user.Roles))
	superAdmin := false
	for _, grant := range user.Roles {
		direct = append(direct, grant.Name)
		authorities[grant.Name] = struct{}{}
		if grant.Name == shared.RoleSuperAdmin {
			superAdmin = true
		}
	}

	if superAdmin {
		for _, name := range allPermissionNames {
			authorities[name] = struct{}{}
		}
	} else {
		for _, grant := range user.Roles {
			for _, perm := range grant.Permissions {
				authorities[perm] = struct{}{}
			}
		}
	}

	flattened := make([]string, 0, len(authorities))
	for name := range authorities {
		flattened = append(flattened, name)
	}
	sort.Strings(flattened)
	sort.Strings(direct)

	return &Principal{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DirectRoles: direct,
		Authorities: flattened,
	}
}
