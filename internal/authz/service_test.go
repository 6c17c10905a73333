package authz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewarden/gatewarden/internal/shared"
)

type mockRuleStore struct {
	rules  []EndpointRule
	nextID int64
}

func newMockRuleStore() *mockRuleStore {
	return &mockRuleStore{nextID: 1}
}

func (m *mockRuleStore) ListRules(ctx context.Context) ([]EndpointRule, error) {
	return append([]EndpointRule(nil), m.rules...), nil
}

func (m *mockRuleStore) CreateRule(ctx context.Context, pattern, method, roleName string) (EndpointRule, error) {
	if roleName == "ROLE_MISSING" {
		return EndpointRule{}, shared.ErrNotFound
	}
	rule := EndpointRule{
		ID:         m.nextID,
		URLPattern: pattern,
		HTTPMethod: method,
		RoleName:   roleName,
		CreatedAt:  time.Now().UTC(),
	}
	m.nextID++
	m.rules = append(m.rules, rule)
	return rule, nil
}

func (m *mockRuleStore) DeleteRule(ctx context.Context, id int64) error {
	for i, rule := range m.rules {
		if rule.ID == id {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func TestCreateRuleNormalizesInput(t *testing.T) {
	service := NewService(newMockRuleStore())

	rule, err := service.CreateRule(context.Background(), " /api/users/** ", "get", " ROLE_MODERATOR ")
	require.NoError(t, err)
	assert.Equal(t, "/api/users/**", rule.URLPattern)
	assert.Equal(t, "GET", rule.HTTPMethod)
	assert.Equal(t, "ROLE_MODERATOR", rule.RoleName)
}

func TestCreateRuleRejectsBadInput(t *testing.T) {
	service := NewService(newMockRuleStore())

	_, err := service.CreateRule(context.Background(), "api/users", "GET", "ROLE_USER")
	assert.Error(t, err)

	_, err = service.CreateRule(context.Background(), "/api/users", "", "ROLE_USER")
	assert.Error(t, err)

	_, err = service.CreateRule(context.Background(), "/api/users", "GET", "")
	assert.Error(t, err)
}

func TestCreateRuleUnknownRole(t *testing.T) {
	service := NewService(newMockRuleStore())

	_, err := service.CreateRule(context.Background(), "/api/users", "GET", "ROLE_MISSING")
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteRuleMissing(t *testing.T) {
	service := NewService(newMockRuleStore())
	err := service.DeleteRule(context.Background(), 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRuleMutationVisibleOnNextList(t *testing.T) {
	store := newMockRuleStore()
	service := NewService(store)
	ctx := context.Background()

	rule, err := service.CreateRule(ctx, "/api/users", "GET", "ROLE_USER")
	require.NoError(t, err)

	rules, err := service.ListRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	require.NoError(t, service.DeleteRule(ctx, rule.ID))
	rules, err = service.ListRules(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules)
}
