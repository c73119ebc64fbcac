package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// ProductStock sums levels per product. Products with no level rows report
// zero, which the KPI computation counts as out of stock.
func (r *repository) ProductStock(ctx context.Context) ([]ProductStock, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.sku, p.name, p.min_stock_level, COALESCE(SUM(il.quantity), 0)
		FROM products p
		LEFT JOIN inventory_levels il ON il.product_id = p.id
		GROUP BY p.id, p.sku, p.name, p.min_stock_level
		ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stock []ProductStock
	for rows.Next() {
		var p ProductStock
		if err := rows.Scan(&p.ProductID, &p.SKU, &p.Name, &p.MinStockLevel, &p.Total); err != nil {
			return nil, err
		}
		stock = append(stock, p)
	}
	return stock, rows.Err()
}

func (r *repository) DraftCounts(ctx context.Context) (DraftCounts, error) {
	var counts DraftCounts
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE type = 'receipt'),
			COUNT(*) FILTER (WHERE type = 'delivery'),
			COUNT(*) FILTER (WHERE type = 'transfer')
		FROM stock_moves
		WHERE status = 'draft'`).Scan(&counts.Receipts, &counts.Deliveries, &counts.Transfers)
	return counts, err
}

func (r *repository) RecentMovements(ctx context.Context, limit int) ([]RecentMovement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, quantity, COALESCE(reference, ''), status, created_at
		FROM stock_moves
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var moves []RecentMovement
	for rows.Next() {
		var m RecentMovement
		if err := rows.Scan(&m.ID, &m.Type, &m.Quantity, &m.Reference, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

func (r *repository) WarehouseTotals(ctx context.Context) ([]WarehouseTotals, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT w.id, w.name, w.location, COALESCE(w.capacity, 0), COALESCE(SUM(il.quantity), 0)
		FROM warehouses w
		LEFT JOIN inventory_levels il ON il.warehouse_id = w.id
		GROUP BY w.id, w.name, w.location, w.capacity
		ORDER BY w.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []WarehouseTotals
	for rows.Next() {
		var wt WarehouseTotals
		if err := rows.Scan(&wt.ID, &wt.Name, &wt.Location, &wt.DeclaredCapacity, &wt.TotalItems); err != nil {
			return nil, err
		}
		totals = append(totals, wt)
	}
	return totals, rows.Err()
}
