package reports

import "time"

// KPIs are the dashboard headline numbers. Low stock counts products whose
// total across warehouses is positive but at or below their minimum level;
// a total of zero counts as out of stock instead.
type KPIs struct {
	TotalProducts     int `json:"totalProducts"`
	LowStockItems     int `json:"lowStockItems"`
	OutOfStockItems   int `json:"outOfStockItems"`
	PendingReceipts   int `json:"pendingReceipts"`
	PendingDeliveries int `json:"pendingDeliveries"`
	InternalTransfers int `json:"internalTransfers"`
}

// ProductStock is one product's total quantity summed across warehouses.
type ProductStock struct {
	ProductID     string `json:"product_id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	MinStockLevel int64  `json:"min_stock_level"`
	Total         int64  `json:"total"`
}

// DraftCounts are per-type counts of movements still in draft.
type DraftCounts struct {
	Receipts   int `json:"receipts"`
	Deliveries int `json:"deliveries"`
	Transfers  int `json:"transfers"`
}

// RecentMovement is a trimmed movement row for the dashboard chart.
type RecentMovement struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Quantity  int64     `json:"quantity"`
	Reference string    `json:"reference,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// WarehouseStatus is per-warehouse utilization. Capacity is a percentage;
// warehouses without a declared capacity are scored against a nominal 1000
// units.
type WarehouseStatus struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	Capacity   int    `json:"capacity"`
	TotalItems int64  `json:"totalItems"`
}

// WarehouseTotals is the raw per-warehouse aggregate the repository returns.
type WarehouseTotals struct {
	ID               string
	Name             string
	Location         string
	DeclaredCapacity int64
	TotalItems       int64
}

// Dashboard is the full dashboard payload.
type Dashboard struct {
	KPIs            KPIs              `json:"kpis"`
	RecentMovements []RecentMovement  `json:"recentMovements"`
	WarehouseStatus []WarehouseStatus `json:"warehouseStatus"`
}
