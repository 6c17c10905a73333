package authz

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gatewarden/gatewarden/internal/platform/httpx"
)

// Handler exposes endpoint-rule management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers rule management routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listRules)
	r.Post("/", h.createRule)
	r.Delete("/{id}", h.deleteRule)
}

type ruleResponse struct {
	ID         int64  `json:"id"`
	URLPattern string `json:"url_pattern"`
	HTTPMethod string `json:"http_method"`
	Role       string `json:"role"`
}

type createRuleRequest struct {
	URLPattern string `json:"url_pattern" validate:"required,startswith=/"`
	HTTPMethod string `json:"http_method" validate:"required,oneof=GET POST PUT PATCH DELETE HEAD OPTIONS get post put patch delete head options"`
	Role       string `json:"role" validate:"required"`
}

func (h *Handler) listRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.service.ListRules(r.Context())
	if err != nil {
		h.logger.Error("list rules", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]ruleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, ruleResponse{ID: rule.ID, URLPattern: rule.URLPattern, HTTPMethod: rule.HTTPMethod, Role: rule.RoleName})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) createRule(w http.ResponseWriter, r *http.Request) {
	var req createRuleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed json body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rule, err := h.service.CreateRule(r.Context(), req.URLPattern, req.HTTPMethod, req.Role)
	if err != nil {
		h.logger.Warn("create rule", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, ruleResponse{ID: rule.ID, URLPattern: rule.URLPattern, HTTPMethod: rule.HTTPMethod, Role: rule.RoleName})
}

func (h *Handler) deleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "rule id must be an integer")
		return
	}
	if err := h.service.DeleteRule(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "rule deleted"})
}
