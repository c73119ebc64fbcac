package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/atlas-wms/atlas-wms/internal/jobs"
	"github.com/atlas-wms/atlas-wms/internal/reports"
)

// LowStockScanJob walks product totals against minimum levels and enqueues
// one notification task per product found low. Minimum levels are advisory,
// so the scan only reports; it never blocks movements.
type LowStockScanJob struct {
	Reports *reports.Service
	Client  *Client
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewLowStockScanJob initialises the scan handler.
func NewLowStockScanJob(reportsSvc *reports.Service, client *Client, logger *slog.Logger, metrics *jobmetrics.Metrics) *LowStockScanJob {
	return &LowStockScanJob{Reports: reportsSvc, Client: client, Logger: logger, Metrics: metrics}
}

// Handle executes the scan.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("low stock scan: handler not configured")
	}
	tracker := j.Metrics.Track(TaskLowStockScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	low, err := j.Reports.LowStock(ctx)
	if err != nil {
		resultErr = err
		return err
	}
	j.Metrics.SetLowStockCount(len(low))
	j.Logger.Info("low stock scan complete", slog.Int("products", len(low)))

	for _, p := range low {
		j.Logger.Warn("product below minimum stock",
			slog.String("sku", p.SKU),
			slog.Int64("total", p.Total),
			slog.Int64("min_stock_level", p.MinStockLevel))
		if j.Client == nil {
			continue
		}
		_, err := j.Client.EnqueueNotifyLowStock(ctx, NotifyLowStockPayload{
			ProductID:     p.ProductID,
			SKU:           p.SKU,
			Name:          p.Name,
			Total:         p.Total,
			MinStockLevel: p.MinStockLevel,
		})
		if err != nil {
			j.Logger.Error("enqueue low stock notification", slog.Any("error", err), slog.String("sku", p.SKU))
		}
	}
	return nil
}
