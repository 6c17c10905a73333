package rbac

import (
	"context"
	"errors"
	"strings"
)

// RepositoryPort defines data access methods for roles and permissions.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRoleByName(ctx context.Context, name string) (Role, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
	CreatePermission(ctx context.Context, name, description string) (Permission, error)
	DeletePermission(ctx context.Context, id int64) error
	ListPermissionNames(ctx context.Context) ([]string, error)
}

// Service orchestrates role and permission catalog operations.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// GetRoleByName fetches a role by its unique name.
func (s *Service) GetRoleByName(ctx context.Context, name string) (Role, error) {
	return s.repo.GetRoleByName(ctx, name)
}

// ListPermissions returns all permissions.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}

// CreatePermission inserts a new named permission, rejecting duplicates.
func (s *Service) CreatePermission(ctx context.Context, name, description string) (Permission, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Permission{}, errors.New("rbac: permission name required")
	}
	return s.repo.CreatePermission(ctx, name, strings.TrimSpace(description))
}

// DeletePermission removes a permission by ID.
func (s *Service) DeletePermission(ctx context.Context, id int64) error {
	return s.repo.DeletePermission(ctx, id)
}

// ListPermissionNames enumerates the full permission catalog.
func (s *Service) ListPermissionNames(ctx context.Context) ([]string, error) {
	return s.repo.ListPermissionNames(ctx)
}
