package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gatewarden/gatewarden/internal/shared"
)

// PermissionCatalog enumerates every permission name in the system. The full
// catalog is fetched only when building a super-admin principal.
type PermissionCatalog interface {
	ListPermissionNames(ctx context.Context) ([]string, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo    Repository
	catalog PermissionCatalog
}

// NewService constructs a new Service.
func NewService(repo Repository, catalog PermissionCatalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Authenticate validates username/password credentials and returns the
// principal built from the stored user record.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Principal, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return s.buildPrincipal(ctx, user)
}

// PrincipalByUsername rebuilds the principal for an existing account. It fails
// with shared.ErrNotFound when the user record does not exist.
func (s *Service) PrincipalByUsername(ctx context.Context, username string) (*Principal, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.buildPrincipal(ctx, user)
}

func (s *Service) buildPrincipal(ctx context.Context, user *User) (*Principal, error) {
	var allPermissions []string
	for _, grant := range user.Roles {
		if grant.Name == shared.RoleSuperAdmin {
			names, err := s.catalog.ListPermissionNames(ctx)
			if err != nil {
				return nil, err
			}
			allPermissions = names
			break
		}
	}
	return BuildPrincipal(user, allPermissions), nil
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
