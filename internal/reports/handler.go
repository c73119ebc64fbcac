package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atlas-wms/atlas-wms/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleDashboard)
	r.Get("/low-stock", h.handleLowStock)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("dashboard query failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dashboard)
}

func (h *Handler) handleLowStock(w http.ResponseWriter, r *http.Request) {
	low, err := h.service.LowStock(r.Context())
	if err != nil {
		h.logger.Error("low stock query failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if low == nil {
		low = []ProductStock{}
	}
	httpx.JSON(w, http.StatusOK, low)
}
