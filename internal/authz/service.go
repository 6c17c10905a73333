package authz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gatewarden/gatewarden/internal/shared"
)

// RuleStore is the persistence surface the service drives.
type RuleStore interface {
	RuleSource
	CreateRule(ctx context.Context, pattern, method, roleName string) (EndpointRule, error)
	DeleteRule(ctx context.Context, id int64) error
}

// Service orchestrates endpoint-rule management.
type Service struct {
	store RuleStore
}

// NewService constructs a Service.
func NewService(store RuleStore) *Service {
	return &Service{store: store}
}

// ListRules returns all rules in evaluation order.
func (s *Service) ListRules(ctx context.Context) ([]EndpointRule, error) {
	return s.store.ListRules(ctx)
}

// CreateRule validates and persists a new endpoint rule.
func (s *Service) CreateRule(ctx context.Context, pattern, method, roleName string) (EndpointRule, error) {
	pattern = strings.TrimSpace(pattern)
	method = strings.ToUpper(strings.TrimSpace(method))
	roleName = strings.TrimSpace(roleName)
	if pattern == "" || !strings.HasPrefix(pattern, "/") {
		return EndpointRule{}, fmt.Errorf("authz: url pattern must start with '/'")
	}
	if method == "" {
		return EndpointRule{}, fmt.Errorf("authz: http method required")
	}
	if roleName == "" {
		return EndpointRule{}, fmt.Errorf("authz: role name required")
	}
	rule, err := s.store.CreateRule(ctx, pattern, method, roleName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return EndpointRule{}, fmt.Errorf("role %q: %w", roleName, shared.ErrNotFound)
		}
		return EndpointRule{}, err
	}
	return rule, nil
}

// DeleteRule removes a rule by ID.
func (s *Service) DeleteRule(ctx context.Context, id int64) error {
	return s.store.DeleteRule(ctx, id)
}
