package warehouse

import (
	"errors"
	"time"
)

// Warehouse types.
const (
	TypeWarehouse    = "warehouse"
	TypeStore        = "store"
	TypeReturnCenter = "return-center"
)

// Warehouse is a physical stock location.
type Warehouse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Type      string    `json:"type"`
	Capacity  int64     `json:"capacity,omitempty"`
	Manager   string    `json:"manager,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrWarehouseNotFound  = errors.New("Warehouse not found")
	ErrInvalidWarehouseID = errors.New("invalid warehouse ID")
	// ErrWarehouseHasStock blocks deletion while any inventory level row
	// references the warehouse, regardless of quantity.
	ErrWarehouseHasStock = errors.New("Cannot delete warehouse with existing inventory. Please move or remove inventory first.")
)
