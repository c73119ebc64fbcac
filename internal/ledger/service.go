package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atlas-wms/atlas-wms/internal/shared"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListMoves(ctx context.Context, filter MoveFilter) ([]MoveDetail, error)
	GetMove(ctx context.Context, id string) (MoveDetail, error)
	ListLevels(ctx context.Context) ([]LevelDetail, error)
}

// TxRepository exposes the transactional operations used while posting moves.
// GetLevelForUpdate must lock the level row until the transaction ends so the
// read-check-write sequence on a (product, warehouse) pair is atomic.
type TxRepository interface {
	InsertMove(ctx context.Context, move StockMove) error
	GetMoveForUpdate(ctx context.Context, id string) (StockMove, error)
	MarkMoveDone(ctx context.Context, id string) error
	GetLevelForUpdate(ctx context.Context, productID, warehouseID string) (InventoryLevel, error)
	UpsertLevel(ctx context.Context, level InventoryLevel) error
}

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// MetricsPort records ledger counters.
type MetricsPort interface {
	MovePosted(moveType string)
	StockRejection()
}

// InvalidationPort is notified after inventory quantities change so cached
// read models can be refreshed.
type InvalidationPort interface {
	Bump(ctx context.Context) error
}

// Service orchestrates movement submission and the draft/done lifecycle.
type Service struct {
	repo        RepositoryPort
	audit       AuditPort
	idempotency *shared.IdempotencyStore
	metrics     MetricsPort
	invalidate  InvalidationPort
	now         func() time.Time
}

// NewService builds Service. audit, idempotency, metrics and invalidate may
// be nil.
func NewService(repo RepositoryPort, audit AuditPort, idem *shared.IdempotencyStore, metrics MetricsPort, invalidate InvalidationPort) *Service {
	return &Service{
		repo:        repo,
		audit:       audit,
		idempotency: idem,
		metrics:     metrics,
		invalidate:  invalidate,
		now:         time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// SubmitOptions carries per-request submission metadata.
type SubmitOptions struct {
	// IdempotencyKey, when set, rejects a repeated submission with
	// shared.ErrIdempotencyConflict instead of double-applying it.
	IdempotencyKey string
}

// Submit records a batch of movements. The whole batch runs inside one
// transaction: the first rejection aborts every movement (fail-fast, no
// partial writes). Movements are applied in caller order; a later line sees
// the quantity effects of earlier lines. Requests with draft status are
// persisted without touching inventory levels.
func (s *Service) Submit(ctx context.Context, reqs []MoveRequest, opts SubmitOptions) ([]StockMove, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyBatch
	}
	actor := shared.ActorFromContext(ctx)
	now := s.now().UTC()

	insertedKey := false
	if s.idempotency != nil && opts.IdempotencyKey != "" {
		if err := s.idempotency.CheckAndInsert(ctx, opts.IdempotencyKey, "ledger"); err != nil {
			return nil, err
		}
		insertedKey = true
	}

	created := make([]StockMove, 0, len(reqs))
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		for _, req := range reqs {
			if req.Status == "" {
				req.Status = MoveStatusDone
			}
			if req.Status != MoveStatusDraft && req.Status != MoveStatusDone {
				return fmt.Errorf("ledger: unknown status %q", req.Status)
			}
			if err := ValidateFields(req); err != nil {
				return err
			}
			if req.Status == MoveStatusDone {
				if err := s.applyMove(ctx, tx, req, now); err != nil {
					return err
				}
			}
			move := StockMove{
				ID:              uuid.NewString(),
				ProductID:       req.ProductID,
				FromWarehouseID: req.FromWarehouseID,
				ToWarehouseID:   req.ToWarehouseID,
				Quantity:        req.Quantity,
				Type:            req.Type,
				Status:          req.Status,
				Reference:       req.Reference,
				Notes:           req.Notes,
				CreatedBy:       actor.ID,
				CreatedAt:       now,
			}
			if err := tx.InsertMove(ctx, move); err != nil {
				return err
			}
			created = append(created, move)
		}
		return nil
	})
	if err != nil {
		if insertedKey {
			_ = s.idempotency.Delete(ctx, opts.IdempotencyKey)
		}
		s.observeRejection(err)
		return nil, err
	}

	s.afterApply(ctx, actor, created)
	return created, nil
}

// ValidateDraft transitions a single draft movement to done. The stock
// sufficiency check runs again against a freshly locked level row; the
// quantity effect is applied atomically with the status flip. Re-validating
// a done move is a hard error, not a no-op.
func (s *Service) ValidateDraft(ctx context.Context, id string) (StockMove, error) {
	if _, err := uuid.Parse(id); err != nil {
		return StockMove{}, fmt.Errorf("%w: %q", ErrInvalidMoveID, id)
	}
	actor := shared.ActorFromContext(ctx)
	now := s.now().UTC()

	var updated StockMove
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		move, err := tx.GetMoveForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if move.Status == MoveStatusDone {
			return ErrMoveAlreadyDone
		}
		req := MoveRequest{
			ProductID:       move.ProductID,
			Type:            move.Type,
			Quantity:        move.Quantity,
			FromWarehouseID: move.FromWarehouseID,
			ToWarehouseID:   move.ToWarehouseID,
			Status:          MoveStatusDone,
		}
		if err := s.applyMove(ctx, tx, req, now); err != nil {
			return err
		}
		if err := tx.MarkMoveDone(ctx, id); err != nil {
			return err
		}
		updated = move
		updated.Status = MoveStatusDone
		return nil
	})
	if err != nil {
		s.observeRejection(err)
		return StockMove{}, err
	}

	s.afterApply(ctx, actor, []StockMove{updated})
	return updated, nil
}

// ListMoves returns movement history, newest first.
func (s *Service) ListMoves(ctx context.Context, filter MoveFilter) ([]MoveDetail, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 200
	}
	return s.repo.ListMoves(ctx, filter)
}

// GetMove fetches a single movement with joined display names.
func (s *Service) GetMove(ctx context.Context, id string) (MoveDetail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return MoveDetail{}, fmt.Errorf("%w: %q", ErrInvalidMoveID, id)
	}
	return s.repo.GetMove(ctx, id)
}

// ListLevels returns current quantities joined with product/warehouse names.
func (s *Service) ListLevels(ctx context.Context) ([]LevelDetail, error) {
	return s.repo.ListLevels(ctx)
}

// applyMove runs the stock check and applies the quantity effects for a move
// being posted as done. Must be called inside a transaction.
func (s *Service) applyMove(ctx context.Context, tx TxRepository, req MoveRequest, now time.Time) error {
	if req.Type == MoveTypeDelivery || req.Type == MoveTypeTransfer {
		level, err := s.levelOrZero(ctx, tx, req.ProductID, req.FromWarehouseID)
		if err != nil {
			return err
		}
		if err := CheckStock(req, level.Quantity); err != nil {
			return err
		}
	}
	for _, effect := range Effects(req) {
		level, err := s.levelOrZero(ctx, tx, req.ProductID, effect.WarehouseID)
		if err != nil {
			return err
		}
		if effect.Absolute {
			level.Quantity = effect.Delta
		} else {
			level.Quantity += effect.Delta
			// Floor at zero as defense-in-depth behind the validator.
			if level.Quantity < 0 {
				level.Quantity = 0
			}
		}
		level.LastUpdated = now
		if err := tx.UpsertLevel(ctx, level); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) levelOrZero(ctx context.Context, tx TxRepository, productID, warehouseID string) (InventoryLevel, error) {
	level, err := tx.GetLevelForUpdate(ctx, productID, warehouseID)
	if err != nil {
		if errors.Is(err, ErrLevelNotFound) {
			return InventoryLevel{ProductID: productID, WarehouseID: warehouseID}, nil
		}
		return InventoryLevel{}, err
	}
	return level, nil
}

func (s *Service) observeRejection(err error) {
	var insufficient *InsufficientStockError
	if s.metrics != nil && errors.As(err, &insufficient) {
		s.metrics.StockRejection()
	}
}

func (s *Service) afterApply(ctx context.Context, actor shared.Actor, moves []StockMove) {
	applied := false
	for _, move := range moves {
		if move.Status != MoveStatusDone {
			continue
		}
		applied = true
		if s.metrics != nil {
			s.metrics.MovePosted(string(move.Type))
		}
		if s.audit != nil {
			_ = s.audit.Record(ctx, shared.AuditLog{
				ActorID:  actor.ID,
				Action:   fmt.Sprintf("ledger:%s", move.Type),
				Entity:   "stock_move",
				EntityID: move.ID,
				Meta: map[string]any{
					"product_id":        move.ProductID,
					"from_warehouse_id": move.FromWarehouseID,
					"to_warehouse_id":   move.ToWarehouseID,
					"quantity":          move.Quantity,
					"reference":         move.Reference,
				},
			})
		}
	}
	if applied && s.invalidate != nil {
		_ = s.invalidate.Bump(ctx)
	}
}
