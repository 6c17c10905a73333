package authz_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gatewarden/gatewarden/internal/auth"
	"github.com/gatewarden/gatewarden/internal/authz"
	"github.com/gatewarden/gatewarden/internal/observability"
	"github.com/gatewarden/gatewarden/internal/shared"
	_ "github.com/gatewarden/gatewarden/testing"
)

type fixedRules struct {
	rules []authz.EndpointRule
}

func (f fixedRules) ListRules(ctx context.Context) ([]authz.EndpointRule, error) {
	return f.rules, nil
}

func newAuthorizer(rules []authz.EndpointRule) authz.Middleware {
	engine := authz.NewEngine(fixedRules{rules: rules}, authz.DefaultHierarchy())
	return authz.Middleware{Engine: engine, Metrics: observability.NewMetrics()}
}

func doRequest(t *testing.T, mw authz.Middleware, principal *auth.Principal, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	req := httptest.NewRequest(method, path, nil)
	req = req.WithContext(auth.ContextWithPrincipal(req.Context(), principal))
	res := httptest.NewRecorder()
	mw.Authorize(next).ServeHTTP(res, req)
	return res
}

func TestAuthorizeAnonymousGets401(t *testing.T) {
	mw := newAuthorizer(nil)
	res := doRequest(t, mw, auth.Anonymous(), http.MethodGet, "/api/users")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestAuthorizeMissingPrincipalGets401(t *testing.T) {
	mw := newAuthorizer(nil)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	res := httptest.NewRecorder()
	mw.Authorize(next).ServeHTTP(res, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestAuthorizeSatisfiedRulePasses(t *testing.T) {
	mw := newAuthorizer([]authz.EndpointRule{
		{ID: 1, URLPattern: "/api/users/**", HTTPMethod: "GET", RoleName: shared.RoleModerator},
	})
	principal := &auth.Principal{UserID: 3, Username: "mod", DirectRoles: []string{shared.RoleModerator}}
	res := doRequest(t, mw, principal, http.MethodGet, "/api/users/5/roles")
	assert.Equal(t, http.StatusNoContent, res.Code)
}

func TestAuthorizeAuthenticatedFallbackPasses(t *testing.T) {
	mw := newAuthorizer(nil)
	principal := &auth.Principal{UserID: 9, Username: "plain", DirectRoles: []string{shared.RoleUser}}
	res := doRequest(t, mw, principal, http.MethodGet, "/api/users")
	assert.Equal(t, http.StatusNoContent, res.Code)
}
