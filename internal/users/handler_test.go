package users

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewarden/gatewarden/internal/auth"
	"github.com/gatewarden/gatewarden/internal/shared"
	_ "github.com/gatewarden/gatewarden/testing"
)

func newTestRouter(service *Service, actor *auth.Principal) http.Handler {
	handler := NewHandler(slog.Default(), service)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.ContextWithPrincipal(req.Context(), actor)))
		})
	})
	r.Route("/api/users", handler.MountRoutes)
	return r
}

func TestCreateUserEndpoint(t *testing.T) {
	service, repo := newTestService()
	router := newTestRouter(service, actorWith(shared.RoleAdmin))

	body := `{"username":"newbie","email":"newbie@example.com","password":"s3cret-pass","roles":["ROLE_USER"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	assert.Contains(t, res.Body.String(), `"username":"newbie"`)
	assert.Len(t, repo.users, 1)
}

func TestCreateUserEndpointValidation(t *testing.T) {
	service, _ := newTestService()
	router := newTestRouter(service, actorWith(shared.RoleAdmin))

	body := `{"username":"ab","email":"not-an-email","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestCreateUserEndpointForbidden(t *testing.T) {
	service, _ := newTestService()
	router := newTestRouter(service, actorWith(shared.RoleModerator))

	body := `{"username":"boss","email":"boss@example.com","password":"s3cret-pass","roles":["ROLE_ADMIN"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestUpdateRolesEndpoint(t *testing.T) {
	service, repo := newTestService()
	target := repo.seed(User{Username: "plain", Email: "plain@example.com", Roles: []string{shared.RoleUser}})
	router := newTestRouter(service, actorWith(shared.RoleAdmin))

	req := httptest.NewRequest(http.MethodPut, "/api/users/1/roles", strings.NewReader(`{"roles":["ROLE_MODERATOR"]}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.Equal(t, []int64{2}, repo.rolesByID[target.ID])
}

func TestUpdateRolesEndpointBadID(t *testing.T) {
	service, _ := newTestService()
	router := newTestRouter(service, actorWith(shared.RoleAdmin))

	req := httptest.NewRequest(http.MethodPut, "/api/users/abc/roles", strings.NewReader(`{"roles":[]}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestDeleteUserEndpointNotFound(t *testing.T) {
	service, _ := newTestService()
	router := newTestRouter(service, actorWith(shared.RoleAdmin))

	req := httptest.NewRequest(http.MethodDelete, "/api/users/77", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestGetUserEndpoint(t *testing.T) {
	service, repo := newTestService()
	repo.seed(User{Username: "plain", Email: "plain@example.com", Roles: []string{shared.RoleUser}})
	router := newTestRouter(service, actorWith(shared.RoleModerator))

	req := httptest.NewRequest(http.MethodGet, "/api/users/1", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"username":"plain"`)
}
