package warehouse

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atlas-wms/atlas-wms/internal/platform/httpx"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Patch("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

type warehouseDTO struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location" validate:"required"`
	Type     string `json:"type" validate:"omitempty,oneof=warehouse store return-center"`
	Capacity int64  `json:"capacity" validate:"gte=0"`
	Manager  string `json:"manager"`
}

func (dto warehouseDTO) toWarehouse() Warehouse {
	return Warehouse{
		Name:     dto.Name,
		Location: dto.Location,
		Type:     dto.Type,
		Capacity: dto.Capacity,
		Manager:  dto.Manager,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	if warehouses == nil {
		warehouses = []Warehouse{}
	}
	httpx.JSON(w, http.StatusOK, warehouses)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var dto warehouseDTO
	if err := httpx.DecodeJSON(r, &dto); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(dto); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Name and location are required")
		return
	}

	created, err := h.service.Create(r.Context(), dto.toWarehouse())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.logger.Info("warehouse created", slog.String("warehouse_id", created.ID), slog.String("name", created.Name))
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	warehouse, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, warehouse)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	// Partial update: absent fields keep their stored values, so the DTO
	// required tags do not apply here.
	var dto warehouseDTO
	if err := httpx.DecodeJSON(r, &dto); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if dto == (warehouseDTO{}) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "At least one field must be provided for update")
		return
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), dto.toWarehouse())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	h.logger.Info("warehouse deleted", slog.String("warehouse_id", id))
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Warehouse deleted successfully"})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrWarehouseHasStock):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrWarehouseNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidWarehouseID):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("warehouse request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
