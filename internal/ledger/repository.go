package ledger

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-wms/atlas-wms/internal/platform/db"
)

// Repository persists ledger data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// WithTx executes the callback inside a repeatable-read transaction. Level
// rows read through GetLevelForUpdate stay locked until commit.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

type txRepo struct {
	tx pgx.Tx
}

func (r *txRepo) InsertMove(ctx context.Context, move StockMove) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO stock_moves (id, product_id, from_warehouse_id, to_warehouse_id, quantity, type, status, reference, notes, created_by, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11)`,
		move.ID, move.ProductID, move.FromWarehouseID, move.ToWarehouseID,
		move.Quantity, string(move.Type), string(move.Status),
		move.Reference, move.Notes, move.CreatedBy, move.CreatedAt)
	return err
}

func (r *txRepo) GetMoveForUpdate(ctx context.Context, id string) (StockMove, error) {
	row := r.tx.QueryRow(ctx, `
		SELECT id, product_id, COALESCE(from_warehouse_id::text, ''), COALESCE(to_warehouse_id::text, ''),
		       quantity, type, status, COALESCE(reference, ''), COALESCE(notes, ''), COALESCE(created_by, ''), created_at
		FROM stock_moves WHERE id = $1 FOR UPDATE`, id)
	move, err := scanMove(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockMove{}, ErrMoveNotFound
		}
		return StockMove{}, err
	}
	return move, nil
}

func (r *txRepo) MarkMoveDone(ctx context.Context, id string) error {
	tag, err := r.tx.Exec(ctx, `UPDATE stock_moves SET status = 'done' WHERE id = $1 AND status = 'draft'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMoveNotFound
	}
	return nil
}

func (r *txRepo) GetLevelForUpdate(ctx context.Context, productID, warehouseID string) (InventoryLevel, error) {
	row := r.tx.QueryRow(ctx, `
		SELECT product_id, warehouse_id, quantity, last_updated
		FROM inventory_levels WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE`,
		productID, warehouseID)
	var level InventoryLevel
	if err := row.Scan(&level.ProductID, &level.WarehouseID, &level.Quantity, &level.LastUpdated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return InventoryLevel{}, ErrLevelNotFound
		}
		return InventoryLevel{}, err
	}
	return level, nil
}

func (r *txRepo) UpsertLevel(ctx context.Context, level InventoryLevel) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO inventory_levels (product_id, warehouse_id, quantity, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, last_updated = EXCLUDED.last_updated`,
		level.ProductID, level.WarehouseID, level.Quantity, level.LastUpdated)
	return err
}

// ListMoves uses a dynamic query (not prepared) due to filter complexity.
func (r *Repository) ListMoves(ctx context.Context, filter MoveFilter) ([]MoveDetail, error) {
	query := `
		SELECT m.id, m.product_id, COALESCE(m.from_warehouse_id::text, ''), COALESCE(m.to_warehouse_id::text, ''),
		       m.quantity, m.type, m.status, COALESCE(m.reference, ''), COALESCE(m.notes, ''), COALESCE(m.created_by, ''), m.created_at,
		       COALESCE(p.sku, ''), COALESCE(p.name, ''), COALESCE(fw.name, ''), COALESCE(tw.name, '')
		FROM stock_moves m
		LEFT JOIN products p ON p.id = m.product_id
		LEFT JOIN warehouses fw ON fw.id = m.from_warehouse_id
		LEFT JOIN warehouses tw ON tw.id = m.to_warehouse_id
		WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filter.Type != "" {
		argCount++
		query += ` AND m.type = $` + strconv.Itoa(argCount)
		args = append(args, string(filter.Type))
	}
	if filter.WarehouseID != "" {
		argCount++
		query += ` AND (m.from_warehouse_id = $` + strconv.Itoa(argCount) + ` OR m.to_warehouse_id = $` + strconv.Itoa(argCount) + `)`
		args = append(args, filter.WarehouseID)
	}
	if filter.ProductID != "" {
		argCount++
		query += ` AND m.product_id = $` + strconv.Itoa(argCount)
		args = append(args, filter.ProductID)
	}
	if !filter.From.IsZero() {
		argCount++
		query += ` AND m.created_at >= $` + strconv.Itoa(argCount)
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		argCount++
		query += ` AND m.created_at <= $` + strconv.Itoa(argCount)
		args = append(args, filter.To)
	}

	query += ` ORDER BY m.created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	argCount++
	query += ` LIMIT $` + strconv.Itoa(argCount)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var moves []MoveDetail
	for rows.Next() {
		var d MoveDetail
		var typ, status string
		err := rows.Scan(&d.ID, &d.ProductID, &d.FromWarehouseID, &d.ToWarehouseID,
			&d.Quantity, &typ, &status, &d.Reference, &d.Notes, &d.CreatedBy, &d.CreatedAt,
			&d.ProductSKU, &d.ProductName, &d.FromWarehouseName, &d.ToWarehouseName)
		if err != nil {
			return nil, err
		}
		d.Type = MoveType(typ)
		d.Status = MoveStatus(status)
		moves = append(moves, d)
	}
	return moves, rows.Err()
}

// GetMove fetches a single movement with joined display names.
func (r *Repository) GetMove(ctx context.Context, id string) (MoveDetail, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT m.id, m.product_id, COALESCE(m.from_warehouse_id::text, ''), COALESCE(m.to_warehouse_id::text, ''),
		       m.quantity, m.type, m.status, COALESCE(m.reference, ''), COALESCE(m.notes, ''), COALESCE(m.created_by, ''), m.created_at,
		       COALESCE(p.sku, ''), COALESCE(p.name, ''), COALESCE(fw.name, ''), COALESCE(tw.name, '')
		FROM stock_moves m
		LEFT JOIN products p ON p.id = m.product_id
		LEFT JOIN warehouses fw ON fw.id = m.from_warehouse_id
		LEFT JOIN warehouses tw ON tw.id = m.to_warehouse_id
		WHERE m.id = $1`, id)
	var d MoveDetail
	var typ, status string
	err := row.Scan(&d.ID, &d.ProductID, &d.FromWarehouseID, &d.ToWarehouseID,
		&d.Quantity, &typ, &status, &d.Reference, &d.Notes, &d.CreatedBy, &d.CreatedAt,
		&d.ProductSKU, &d.ProductName, &d.FromWarehouseName, &d.ToWarehouseName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MoveDetail{}, ErrMoveNotFound
		}
		return MoveDetail{}, err
	}
	d.Type = MoveType(typ)
	d.Status = MoveStatus(status)
	return d, nil
}

// ListLevels returns current quantities joined with names, most recently
// updated first.
func (r *Repository) ListLevels(ctx context.Context) ([]LevelDetail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.product_id, l.warehouse_id, l.quantity, l.last_updated,
		       COALESCE(p.sku, ''), COALESCE(p.name, ''), COALESCE(w.name, '')
		FROM inventory_levels l
		LEFT JOIN products p ON p.id = l.product_id
		LEFT JOIN warehouses w ON w.id = l.warehouse_id
		ORDER BY l.last_updated DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []LevelDetail
	for rows.Next() {
		var d LevelDetail
		if err := rows.Scan(&d.ProductID, &d.WarehouseID, &d.Quantity, &d.LastUpdated,
			&d.ProductSKU, &d.ProductName, &d.WarehouseName); err != nil {
			return nil, err
		}
		levels = append(levels, d)
	}
	return levels, rows.Err()
}

func scanMove(row pgx.Row) (StockMove, error) {
	var move StockMove
	var typ, status string
	var createdAt time.Time
	if err := row.Scan(&move.ID, &move.ProductID, &move.FromWarehouseID, &move.ToWarehouseID,
		&move.Quantity, &typ, &status, &move.Reference, &move.Notes, &move.CreatedBy, &createdAt); err != nil {
		return StockMove{}, err
	}
	move.Type = MoveType(typ)
	move.Status = MoveStatus(status)
	move.CreatedAt = createdAt
	return move, nil
}
