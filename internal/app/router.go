package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gatewarden/gatewarden/internal/auth"
	"github.com/gatewarden/gatewarden/internal/authz"
	"github.com/gatewarden/gatewarden/internal/observability"
	"github.com/gatewarden/gatewarden/internal/rbac"
	"github.com/gatewarden/gatewarden/internal/shared"
	"github.com/gatewarden/gatewarden/internal/users"
	"github.com/gatewarden/gatewarden/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	SessionManager     *shared.SessionManager
	CSRFManager        *shared.CSRFManager
	AuthHandler        *auth.Handler
	UsersHandler       *users.Handler
	RolesHandler       *rbac.RolesHandler
	PermissionsHandler *rbac.PermissionsHandler
	RulesHandler       *authz.Handler
	JobsHandler        *jobs.Handler
	Authorizer         authz.Middleware
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Gatewarden defaults. Everything
// under /api is guarded by the dynamic authorization middleware; the rule
// table is consulted live on every request.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/api", func(r chi.Router) {
		r.Use(params.Authorizer.Authorize)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/roles", params.RolesHandler.MountRoutes)
		r.Route("/permissions", params.PermissionsHandler.MountRoutes)
		r.Route("/rules", params.RulesHandler.MountRoutes)
		if params.JobsHandler != nil {
			r.Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
