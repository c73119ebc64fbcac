package catalog

import (
	"errors"
	"time"
)

// Product is a stock-keeping unit in the catalog. SKU is unique and
// immutable after creation. MinStockLevel is advisory: it drives low-stock
// reporting, never movement acceptance.
type Product struct {
	ID            string    `json:"id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	UOM           string    `json:"uom"`
	MinStockLevel int64     `json:"min_stock_level"`
	Barcode       string    `json:"barcode,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListFilters represents standard catalog list filters.
type ListFilters struct {
	Search  string
	Page    int
	Limit   int
	SortBy  string
	SortDir string
}

var (
	ErrSKUExists        = errors.New("A product with this SKU already exists")
	ErrSKUImmutable     = errors.New("SKU cannot be changed after creation")
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidProductID = errors.New("invalid product ID")
	// ErrProductHasStock blocks deletion while inventory level rows
	// still reference the product.
	ErrProductHasStock = errors.New("Cannot delete product with existing inventory. Please remove inventory first.")
)
