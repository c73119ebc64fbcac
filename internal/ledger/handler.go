package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atlas-wms/atlas-wms/internal/platform/httpx"
	"github.com/atlas-wms/atlas-wms/internal/shared"
)

const maxBodyBytes = 1 << 20

// Handler wires the ledger JSON endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs the ledger handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers stock-move routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleSubmit)
	r.Get("/{id}", h.handleGet)
	r.Post("/{id}/validate", h.handleValidateDraft)
}

// MountInventoryRoutes registers the inventory level read routes.
func (h *Handler) MountInventoryRoutes(r chi.Router) {
	r.Get("/", h.handleLevels)
}

type moveRequestDTO struct {
	ProductID       string `json:"product_id" validate:"required,uuid"`
	Type            string `json:"type" validate:"required,oneof=receipt delivery transfer adjustment"`
	Quantity        int64  `json:"quantity"`
	FromWarehouseID string `json:"from_warehouse_id" validate:"omitempty,uuid"`
	ToWarehouseID   string `json:"to_warehouse_id" validate:"omitempty,uuid"`
	Reference       string `json:"reference"`
	Notes           string `json:"notes"`
	Status          string `json:"status" validate:"omitempty,oneof=draft done"`
}

func (dto moveRequestDTO) toRequest() MoveRequest {
	return MoveRequest{
		ProductID:       dto.ProductID,
		Type:            MoveType(dto.Type),
		Quantity:        dto.Quantity,
		FromWarehouseID: dto.FromWarehouseID,
		ToWarehouseID:   dto.ToWarehouseID,
		Reference:       dto.Reference,
		Notes:           dto.Notes,
		Status:          MoveStatus(dto.Status),
	}
}

// handleSubmit accepts a single move object or an array of moves as one batch.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unable to read request body")
		return
	}

	var dtos []moveRequestDTO
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &dtos); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON array")
			return
		}
	} else {
		var dto moveRequestDTO
		if err := json.Unmarshal(trimmed, &dto); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON object")
			return
		}
		dtos = append(dtos, dto)
	}
	if len(dtos) == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", ErrEmptyBatch.Error())
		return
	}

	reqs := make([]MoveRequest, 0, len(dtos))
	for _, dto := range dtos {
		if err := h.validator.Struct(dto); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		reqs = append(reqs, dto.toRequest())
	}

	opts := SubmitOptions{IdempotencyKey: r.Header.Get("Idempotency-Key")}
	created, err := h.service.Submit(r.Context(), reqs, opts)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.logger.Info("stock moves submitted",
		slog.Int("count", len(created)),
		slog.String("first_type", string(created[0].Type)))
	if len(trimmed) > 0 && trimmed[0] == '[' {
		httpx.JSON(w, http.StatusCreated, created)
		return
	}
	httpx.JSON(w, http.StatusCreated, created[0])
}

func (h *Handler) handleValidateDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	updated, err := h.service.ValidateDraft(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.logger.Info("draft move validated", slog.String("move_id", id))
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseMoveFilter(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	moves, err := h.service.ListMoves(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if moves == nil {
		moves = []MoveDetail{}
	}
	httpx.JSON(w, http.StatusOK, moves)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetMove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) handleLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.ListLevels(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	if levels == nil {
		levels = []LevelDetail{}
	}
	httpx.JSON(w, http.StatusOK, levels)
}

func parseMoveFilter(r *http.Request) (MoveFilter, error) {
	q := r.URL.Query()
	filter := MoveFilter{
		Type:        MoveType(q.Get("type")),
		WarehouseID: q.Get("warehouse_id"),
		ProductID:   q.Get("product_id"),
	}
	if filter.Type == "all" {
		filter.Type = ""
	}
	if raw := q.Get("start_date"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return MoveFilter{}, errors.New("invalid start_date, expected YYYY-MM-DD")
		}
		filter.From = from
	}
	if raw := q.Get("end_date"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return MoveFilter{}, errors.New("invalid end_date, expected YYYY-MM-DD")
		}
		// End of day.
		filter.To = to.Add(24*time.Hour - time.Nanosecond)
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return MoveFilter{}, errors.New("invalid limit")
		}
		filter.Limit = limit
	}
	return filter, nil
}

var validationErrors = []error{
	ErrProductRequired,
	ErrTypeRequired,
	ErrQuantityNotPositive,
	ErrQuantityNegative,
	ErrReceiptNeedsDestination,
	ErrDeliveryNeedsSource,
	ErrTransferNeedsWarehouses,
	ErrTransferSameWarehouse,
	ErrAdjustmentNeedsWarehouse,
	ErrEmptyBatch,
	ErrInvalidMoveID,
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var insufficient *InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		httpx.Problem(w, http.StatusConflict, "Insufficient Stock", insufficient.Error())
	case errors.Is(err, ErrMoveAlreadyDone):
		httpx.Problem(w, http.StatusConflict, "Conflict", "Cannot update a move that is already done")
	case errors.Is(err, ErrMoveNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "stock move not found")
	case errors.Is(err, shared.ErrIdempotencyConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", shared.ErrIdempotencyConflict.Error())
	default:
		for _, sentinel := range validationErrors {
			if errors.Is(err, sentinel) {
				httpx.Problem(w, http.StatusBadRequest, "Validation Failed", sentinel.Error())
				return
			}
		}
		h.logger.Error("ledger request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
