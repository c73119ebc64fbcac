package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	stock  []ProductStock
	drafts DraftCounts
	recent []RecentMovement
	totals []WarehouseTotals

	stockCalls int
}

func (m *mockRepo) ProductStock(ctx context.Context) ([]ProductStock, error) {
	m.stockCalls++
	return m.stock, nil
}

func (m *mockRepo) DraftCounts(ctx context.Context) (DraftCounts, error) {
	return m.drafts, nil
}

func (m *mockRepo) RecentMovements(ctx context.Context, limit int) ([]RecentMovement, error) {
	if limit < len(m.recent) {
		return m.recent[:limit], nil
	}
	return m.recent, nil
}

func (m *mockRepo) WarehouseTotals(ctx context.Context) ([]WarehouseTotals, error) {
	return m.totals, nil
}

func newServiceWithRedis(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, NewCache(client, time.Minute))
}

func sampleRepo() *mockRepo {
	return &mockRepo{
		stock: []ProductStock{
			{ProductID: "p1", SKU: "WID-001", Name: "Widget", MinStockLevel: 10, Total: 8},
			{ProductID: "p2", SKU: "GAD-001", Name: "Gadget", MinStockLevel: 5, Total: 0},
			{ProductID: "p3", SKU: "DOO-001", Name: "Doohickey", MinStockLevel: 5, Total: 50},
			{ProductID: "p4", SKU: "THN-001", Name: "Thing", MinStockLevel: 0, Total: 0},
		},
		drafts: DraftCounts{Receipts: 2, Deliveries: 1, Transfers: 3},
		recent: []RecentMovement{
			{ID: "m1", Type: "receipt", Quantity: 10, Status: "done", CreatedAt: time.Now()},
		},
		totals: []WarehouseTotals{
			{ID: "w1", Name: "Main", Location: "Springfield", DeclaredCapacity: 100, TotalItems: 58},
			{ID: "w2", Name: "Outlet", Location: "Shelbyville", TotalItems: 500},
		},
	}
}

func TestDashboardKPIs(t *testing.T) {
	svc := newServiceWithRedis(t, sampleRepo())

	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	require.Equal(t, 4, dashboard.KPIs.TotalProducts)
	// Positive total at or below minimum counts as low stock; zero counts
	// as out of stock even when the minimum is zero.
	require.Equal(t, 1, dashboard.KPIs.LowStockItems)
	require.Equal(t, 2, dashboard.KPIs.OutOfStockItems)
	require.Equal(t, 2, dashboard.KPIs.PendingReceipts)
	require.Equal(t, 1, dashboard.KPIs.PendingDeliveries)
	require.Equal(t, 3, dashboard.KPIs.InternalTransfers)
	require.Len(t, dashboard.RecentMovements, 1)
}

func TestDashboardWarehouseUtilization(t *testing.T) {
	svc := newServiceWithRedis(t, sampleRepo())

	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, dashboard.WarehouseStatus, 2)

	// Declared capacity is used when present; otherwise a nominal 1000.
	require.Equal(t, 58, dashboard.WarehouseStatus[0].Capacity)
	require.Equal(t, 50, dashboard.WarehouseStatus[1].Capacity)
	require.EqualValues(t, 500, dashboard.WarehouseStatus[1].TotalItems)
}

func TestDashboardCachesUntilBump(t *testing.T) {
	repo := sampleRepo()
	svc := newServiceWithRedis(t, repo)
	ctx := context.Background()

	_, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	_, err = svc.Dashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.stockCalls)

	// A version bump invalidates the cached payload.
	require.NoError(t, svc.cache.Bump(ctx))
	_, err = svc.Dashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, repo.stockCalls)
}

func TestDashboardWithoutRedis(t *testing.T) {
	svc := NewService(sampleRepo(), NewCache(nil, 0))

	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, dashboard.KPIs.TotalProducts)
}

func TestLowStock(t *testing.T) {
	svc := newServiceWithRedis(t, sampleRepo())

	low, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, "WID-001", low[0].SKU)
}
