package warehouse

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	List(ctx context.Context) ([]Warehouse, error)
	Get(ctx context.Context, id string) (Warehouse, error)
	Create(ctx context.Context, warehouse Warehouse) (Warehouse, error)
	Update(ctx context.Context, id string, warehouse Warehouse) error
	Delete(ctx context.Context, id string) error
	HasInventory(ctx context.Context, warehouseID string) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const warehouseColumns = `id, name, location, type, COALESCE(capacity, 0), COALESCE(manager, ''), created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]Warehouse, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+warehouseColumns+` FROM warehouses ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warehouses []Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Warehouse, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id)
	w, err := scanWarehouse(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Warehouse{}, ErrWarehouseNotFound
	}
	return w, err
}

func (r *repository) Create(ctx context.Context, warehouse Warehouse) (Warehouse, error) {
	now := time.Now()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO warehouses (id, name, location, type, capacity, manager, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, 0), NULLIF($6, ''), $7, $7)`,
		warehouse.ID, warehouse.Name, warehouse.Location, warehouse.Type,
		warehouse.Capacity, warehouse.Manager, now)
	if err != nil {
		return Warehouse{}, err
	}
	warehouse.CreatedAt = now
	warehouse.UpdatedAt = now
	return warehouse, nil
}

func (r *repository) Update(ctx context.Context, id string, warehouse Warehouse) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE warehouses
		SET name = $2, location = $3, type = $4, capacity = NULLIF($5, 0),
		    manager = NULLIF($6, ''), updated_at = $7
		WHERE id = $1`,
		id, warehouse.Name, warehouse.Location, warehouse.Type,
		warehouse.Capacity, warehouse.Manager, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWarehouseNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM warehouses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWarehouseNotFound
	}
	return nil
}

func (r *repository) HasInventory(ctx context.Context, warehouseID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM inventory_levels WHERE warehouse_id = $1)`, warehouseID).Scan(&exists)
	return exists, err
}

func scanWarehouse(row pgx.Row) (Warehouse, error) {
	var w Warehouse
	err := row.Scan(&w.ID, &w.Name, &w.Location, &w.Type, &w.Capacity, &w.Manager, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}
