package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLowStockScan walks product stock totals against minimum levels.
	TaskLowStockScan = "reports:low_stock_scan"
	// TaskIdempotencyCleanup prunes expired idempotency keys.
	TaskIdempotencyCleanup = "ledger:idempotency_cleanup"
	// TaskTypeNotifyLowStock is the per-product notification task.
	TaskTypeNotifyLowStock = "notify:low_stock"
)

// NotifyLowStockPayload describes one product found below its minimum level.
type NotifyLowStockPayload struct {
	ProductID     string `json:"product_id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Total         int64  `json:"total"`
	MinStockLevel int64  `json:"min_stock_level"`
}

// NewNotifyLowStockTask constructs an Asynq task.
func NewNotifyLowStockTask(payload NotifyLowStockPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeNotifyLowStock, data), nil
}

// NewLowStockScanTask constructs the scheduled scan task.
func NewLowStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskLowStockScan, nil)
}

// NewIdempotencyCleanupTask constructs the scheduled cleanup task.
func NewIdempotencyCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskIdempotencyCleanup, nil)
}

// HandleNotifyLowStockTask processes TaskTypeNotifyLowStock tasks.
func HandleNotifyLowStockTask(ctx context.Context, t *asynq.Task) error {
	var payload NotifyLowStockPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder: delivery channel (email/webhook) lands in phase 2.
	fmt.Printf("[jobs] low stock alert sku=%s total=%d min=%d\n", payload.SKU, payload.Total, payload.MinStockLevel)
	return nil
}
