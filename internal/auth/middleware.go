package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gatewarden/gatewarden/internal/shared"
)

// PrincipalMiddleware deserializes the principal stored in the session at
// login and attaches it to the request context. Requests without a session
// principal proceed as the anonymous sentinel; downstream authorization
// decides what anonymity is allowed to do.
func PrincipalMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := Anonymous()
			if sess := shared.SessionFromContext(r.Context()); sess != nil {
				if raw := sess.Principal(); len(raw) > 0 {
					var p Principal
					if err := json.Unmarshal(raw, &p); err != nil {
						if logger != nil {
							logger.Warn("decode session principal", slog.Any("error", err))
						}
					} else {
						principal = &p
					}
				}
			}
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}
