package authz

import (
	"log/slog"
	"net/http"

	"github.com/gatewarden/gatewarden/internal/auth"
	"github.com/gatewarden/gatewarden/internal/observability"
	"github.com/gatewarden/gatewarden/internal/platform/httpx"
	"github.com/gatewarden/gatewarden/internal/shared"
)

// Middleware guards routes with the decision engine.
type Middleware struct {
	Engine  *Engine
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Authorize evaluates every request against the live rule table before
// dispatching to the handler.
func (m Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := auth.PrincipalFromContext(r.Context())

		decision, err := m.Engine.Decide(r.Context(), principal, r.URL.Path, r.Method)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("authorization check", slog.Any("error", err), slog.String("path", r.URL.Path))
			}
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		m.Metrics.ObserveDecision(decision.String())

		if decision != Allow {
			if principal.IsAnonymous() {
				httpx.RespondError(w, shared.ErrInvalidPrincipal)
				return
			}
			httpx.RespondError(w, shared.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
