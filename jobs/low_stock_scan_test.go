package jobs

import (
	"context"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/atlas-wms/atlas-wms/internal/reports"
)

type stubReportsRepo struct {
	stock []reports.ProductStock
}

func (s *stubReportsRepo) ProductStock(ctx context.Context) ([]reports.ProductStock, error) {
	return s.stock, nil
}

func (s *stubReportsRepo) DraftCounts(ctx context.Context) (reports.DraftCounts, error) {
	return reports.DraftCounts{}, nil
}

func (s *stubReportsRepo) RecentMovements(ctx context.Context, limit int) ([]reports.RecentMovement, error) {
	return nil, nil
}

func (s *stubReportsRepo) WarehouseTotals(ctx context.Context) ([]reports.WarehouseTotals, error) {
	return nil, nil
}

func TestLowStockScanHandle(t *testing.T) {
	repo := &stubReportsRepo{stock: []reports.ProductStock{
		{ProductID: "p1", SKU: "WID-001", Name: "Widget", MinStockLevel: 10, Total: 3},
		{ProductID: "p2", SKU: "GAD-001", Name: "Gadget", MinStockLevel: 5, Total: 40},
		{ProductID: "p3", SKU: "DOO-001", Name: "Doohickey", MinStockLevel: 5, Total: 0},
	}}
	svc := reports.NewService(repo, reports.NewCache(nil, 0))
	job := NewLowStockScanJob(svc, nil, slog.Default(), nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskLowStockScan, nil))
	require.NoError(t, err)
}

func TestLowStockScanUnconfigured(t *testing.T) {
	var job *LowStockScanJob
	require.Error(t, job.Handle(context.Background(), asynq.NewTask(TaskLowStockScan, nil)))
}
