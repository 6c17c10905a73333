package authz

import "github.com/gatewarden/gatewarden/internal/shared"

// Hierarchy is the static role implication graph, built once at startup.
// An edge A -> B means holders of A also satisfy rules requiring B.
type Hierarchy struct {
	implies map[string][]string
}

// NewHierarchy constructs a Hierarchy from an adjacency map.
func NewHierarchy(implies map[string][]string) *Hierarchy {
	copied := make(map[string][]string, len(implies))
	for role, reachable := range implies {
		copied[role] = append([]string(nil), reachable...)
	}
	return &Hierarchy{implies: copied}
}

// DefaultHierarchy returns the built-in chain
// SUPER_ADMIN > ADMIN > MODERATOR > USER.
func DefaultHierarchy() *Hierarchy {
	return NewHierarchy(map[string][]string{
		shared.RoleSuperAdmin: {shared.RoleAdmin},
		shared.RoleAdmin:      {shared.RoleModerator},
		shared.RoleModerator:  {shared.RoleUser},
	})
}

// Expand returns the closure of directRoles under the implies relation,
// including the roles themselves. The visited set guarantees termination on a
// malformed graph containing cycles: expansion stops at the fixed point.
func (h *Hierarchy) Expand(directRoles []string) map[string]struct{} {
	effective := make(map[string]struct{}, len(directRoles))
	stack := append([]string(nil), directRoles...)
	for len(stack) > 0 {
		role := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if role == "" {
			continue
		}
		if _, seen := effective[role]; seen {
			continue
		}
		effective[role] = struct{}{}
		stack = append(stack, h.implies[role]...)
	}
	return effective
}
