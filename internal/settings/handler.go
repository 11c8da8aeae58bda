package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quotebill/quotebill/internal/platform/httpx"
	"github.com/quotebill/quotebill/internal/shared"
)

// Handler exposes the settings JSON endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the settings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/settings", h.Show)
	r.Put("/settings", h.Save)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrNoUser)
		return
	}
	s, err := h.service.Load(r.Context(), userID)
	if err != nil {
		h.logger.Error("load settings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrNoUser)
		return
	}
	var req SaveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	saved, err := h.service.Save(r.Context(), userID, req)
	if err != nil {
		h.logger.Warn("save settings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}
