package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"

	"github.com/gatewarden/gatewarden/internal/auth"
	"github.com/gatewarden/gatewarden/internal/rbac"
	"github.com/gatewarden/gatewarden/internal/shared"
)

// RoleDirectory resolves role names to stored roles.
type RoleDirectory interface {
	GetRoleByName(ctx context.Context, name string) (rbac.Role, error)
}

// Service handles user management business logic. Every mutating operation
// takes the acting principal explicitly; there is no ambient current-user
// lookup.
type Service struct {
	repo  RepositoryPort
	roles RoleDirectory
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, roles RoleDirectory) *Service {
	return &Service{repo: repo, roles: roles}
}

// CreateInput carries the attributes for a new user account.
type CreateInput struct {
	Username string
	Email    string
	Password string
	Roles    []string
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser fetches one user by ID.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

// CreateUser provisions a new account. Preconditions are checked in order:
// uniqueness, role resolution, management policy; persistence happens last and
// atomically.
func (s *Service) CreateUser(ctx context.Context, actor *auth.Principal, in CreateInput) (*User, error) {
	if actor.IsAnonymous() {
		return nil, shared.ErrInvalidPrincipal
	}

	username := normalizeIdentifier(in.Username)
	email := normalizeIdentifier(in.Email)

	taken, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("username %q is already taken: %w", username, shared.ErrConflict)
	}
	taken, err = s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("email %q is already in use: %w", email, shared.ErrConflict)
	}

	roles, err := s.resolveRoles(ctx, in.Roles)
	if err != nil {
		return nil, err
	}
	if err := checkManageable(actor, roleNames(roles)); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, username, email, string(hash), roleIDs(roles))
	if err != nil {
		return nil, err
	}
	user.Roles = roleNames(roles)
	return user, nil
}

// UpdateUserRoles replaces the target's role set. The policy is applied twice:
// against the target's current roles (may the actor touch this user at all)
// and against the proposed set.
func (s *Service) UpdateUserRoles(ctx context.Context, actor *auth.Principal, userID int64, roleSet []string) (*User, error) {
	if actor.IsAnonymous() {
		return nil, shared.ErrInvalidPrincipal
	}

	target, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	roles, err := s.resolveRoles(ctx, roleSet)
	if err != nil {
		return nil, err
	}
	if err := checkManageable(actor, target.Roles); err != nil {
		return nil, err
	}
	if err := checkManageable(actor, roleNames(roles)); err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceUserRoles(ctx, userID, roleIDs(roles)); err != nil {
		return nil, err
	}
	target.Roles = roleNames(roles)
	return target, nil
}

// DeleteUser removes the target account after verifying the actor may manage
// a user holding the target's current roles. No deletion happens on a policy
// failure.
func (s *Service) DeleteUser(ctx context.Context, actor *auth.Principal, userID int64) error {
	if actor.IsAnonymous() {
		return shared.ErrInvalidPrincipal
	}

	target, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := checkManageable(actor, target.Roles); err != nil {
		return err
	}
	return s.repo.DeleteUser(ctx, userID)
}

// resolveRoles maps requested role names to stored roles. An empty set
// defaults to exactly the base USER role. Granting ROLE_SUPER_ADMIN through
// the management surface is never permitted, for any actor.
func (s *Service) resolveRoles(ctx context.Context, requested []string) ([]rbac.Role, error) {
	if len(requested) == 0 {
		role, err := s.roles.GetRoleByName(ctx, shared.RoleUser)
		if err != nil {
			return nil, err
		}
		return []rbac.Role{role}, nil
	}

	seen := make(map[string]struct{}, len(requested))
	roles := make([]rbac.Role, 0, len(requested))
	for _, name := range requested {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if name == shared.RoleSuperAdmin {
			return nil, fmt.Errorf("super admin role cannot be granted: %w", shared.ErrForbidden)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		role, err := s.roles.GetRoleByName(ctx, name)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, fmt.Errorf("role %q: %w", name, shared.ErrNotFound)
			}
			return nil, err
		}
		roles = append(roles, role)
	}
	if len(roles) == 0 {
		role, err := s.roles.GetRoleByName(ctx, shared.RoleUser)
		if err != nil {
			return nil, err
		}
		return []rbac.Role{role}, nil
	}
	return roles, nil
}

// normalizeIdentifier canonicalizes usernames and emails before uniqueness
// checks so visually identical unicode forms cannot collide.
func normalizeIdentifier(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}

func roleNames(roles []rbac.Role) []string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names
}

func roleIDs(roles []rbac.Role) []int64 {
	ids := make([]int64, 0, len(roles))
	for _, role := range roles {
		ids = append(ids, role.ID)
	}
	return ids
}
