package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gatewarden/gatewarden/internal/platform/httpx"
)

// RolesHandler exposes the read-only role catalog.
type RolesHandler struct {
	logger  *slog.Logger
	service *Service
}

// NewRolesHandler builds RolesHandler instance.
func NewRolesHandler(logger *slog.Logger, service *Service) *RolesHandler {
	return &RolesHandler{logger: logger, service: service}
}

// MountRoutes registers role routes.
func (h *RolesHandler) MountRoutes(r chi.Router) {
	r.Get("/", h.listRoles)
}

type roleResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (h *RolesHandler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, roleResponse{ID: role.ID, Name: role.Name, Description: role.Description})
	}
	httpx.JSON(w, http.StatusOK, out)
}
