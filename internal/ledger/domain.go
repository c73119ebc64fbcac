package ledger

import (
	"errors"
	"fmt"
	"time"
)

// MoveType enumerates supported stock movements.
type MoveType string

const (
	// MoveTypeReceipt represents an inbound movement into a warehouse.
	MoveTypeReceipt MoveType = "receipt"
	// MoveTypeDelivery represents an outbound movement from a warehouse.
	MoveTypeDelivery MoveType = "delivery"
	// MoveTypeTransfer moves stock between two warehouses.
	MoveTypeTransfer MoveType = "transfer"
	// MoveTypeAdjustment reconciles system quantity with a physical count.
	MoveTypeAdjustment MoveType = "adjustment"
)

// MoveStatus models the draft/done lifecycle of a stock move.
type MoveStatus string

const (
	// MoveStatusDraft is a persisted move with no inventory effect yet.
	MoveStatusDraft MoveStatus = "draft"
	// MoveStatusDone is terminal; the move's effect has been applied exactly once.
	MoveStatusDone MoveStatus = "done"
)

// StockMove is a recorded inventory-affecting event. Once status is done
// the record is immutable.
type StockMove struct {
	ID              string     `json:"id"`
	ProductID       string     `json:"product_id"`
	FromWarehouseID string     `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string     `json:"to_warehouse_id,omitempty"`
	Quantity        int64      `json:"quantity"`
	Type            MoveType   `json:"type"`
	Status          MoveStatus `json:"status"`
	Reference       string     `json:"reference,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedBy       string     `json:"created_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// MoveDetail is a StockMove joined with display names for the query surface.
type MoveDetail struct {
	StockMove
	ProductSKU        string `json:"product_sku,omitempty"`
	ProductName       string `json:"product_name,omitempty"`
	FromWarehouseName string `json:"from_warehouse_name,omitempty"`
	ToWarehouseName   string `json:"to_warehouse_name,omitempty"`
}

// InventoryLevel is the per-(product, warehouse) quantity balance. An absent
// row reads as quantity zero.
type InventoryLevel struct {
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int64     `json:"quantity"`
	LastUpdated time.Time `json:"last_updated"`
}

// LevelDetail is an InventoryLevel joined with product/warehouse names.
type LevelDetail struct {
	InventoryLevel
	ProductSKU    string `json:"product_sku,omitempty"`
	ProductName   string `json:"product_name,omitempty"`
	WarehouseName string `json:"warehouse_name,omitempty"`
}

// MoveRequest describes a proposed movement submitted by a caller. Status
// defaults to done when empty, matching the older single-move submission shape.
type MoveRequest struct {
	ProductID       string
	Type            MoveType
	Quantity        int64
	FromWarehouseID string
	ToWarehouseID   string
	Reference       string
	Notes           string
	Status          MoveStatus
}

// MoveFilter filters movement history listings.
type MoveFilter struct {
	Type        MoveType
	WarehouseID string
	ProductID   string
	From        time.Time
	To          time.Time
	Limit       int
}

// Rejection reasons, one sentinel per rule.
var (
	// ErrProductRequired indicates a missing product reference.
	ErrProductRequired = errors.New("ledger: product is required")
	// ErrTypeRequired indicates a missing or unknown movement type.
	ErrTypeRequired = errors.New("ledger: movement type is required")
	// ErrQuantityNotPositive indicates a non-positive quantity for receipt/delivery/transfer.
	ErrQuantityNotPositive = errors.New("ledger: quantity must be a positive integer")
	// ErrQuantityNegative indicates a negative counted quantity on an adjustment.
	ErrQuantityNegative = errors.New("ledger: counted quantity must not be negative")
	// ErrReceiptNeedsDestination rejects receipts without a destination warehouse.
	ErrReceiptNeedsDestination = errors.New("ledger: destination warehouse is required for receipts")
	// ErrDeliveryNeedsSource rejects deliveries without a source warehouse.
	ErrDeliveryNeedsSource = errors.New("ledger: source warehouse is required for deliveries")
	// ErrTransferNeedsWarehouses rejects transfers missing either endpoint.
	ErrTransferNeedsWarehouses = errors.New("ledger: source and destination warehouses are required for transfers")
	// ErrTransferSameWarehouse rejects transfers with identical endpoints.
	ErrTransferSameWarehouse = errors.New("ledger: source and destination warehouses must be different")
	// ErrAdjustmentNeedsWarehouse rejects adjustments without a warehouse.
	ErrAdjustmentNeedsWarehouse = errors.New("ledger: warehouse is required for adjustments")
	// ErrMoveAlreadyDone rejects a second validation of a done move.
	ErrMoveAlreadyDone = errors.New("ledger: move already done")
	// ErrEmptyBatch rejects submissions with no movements.
	ErrEmptyBatch = errors.New("ledger: at least one movement is required")
	// ErrMoveNotFound indicates an unknown move id.
	ErrMoveNotFound = errors.New("ledger: move not found")
	// ErrInvalidMoveID indicates a malformed move id.
	ErrInvalidMoveID = errors.New("ledger: invalid move id")
	// ErrLevelNotFound indicates a missing inventory level row.
	ErrLevelNotFound = errors.New("ledger: inventory level not found")
)

// InsufficientStockError rejects a delivery or transfer that would overdraw
// the source warehouse. The message including both figures is a user-facing
// contract.
type InsufficientStockError struct {
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock. Available: %d, Requested: %d", e.Available, e.Requested)
}
