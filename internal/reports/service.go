package reports

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const recentMovementLimit = 10

// Repository is the read-only query port for reporting.
type Repository interface {
	ProductStock(ctx context.Context) ([]ProductStock, error)
	DraftCounts(ctx context.Context) (DraftCounts, error)
	RecentMovements(ctx context.Context, limit int) ([]RecentMovement, error)
	WarehouseTotals(ctx context.Context) ([]WarehouseTotals, error)
}

type Service struct {
	repo  Repository
	cache *Cache
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Dashboard assembles the KPI payload, served from the versioned cache when
// warm. The underlying queries run concurrently.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	key, err := s.cache.BuildKey(ctx, keyDashboard()...)
	if err != nil {
		return Dashboard{}, err
	}
	var dashboard Dashboard
	err = s.cache.FetchJSON(ctx, key, &dashboard, func(ctx context.Context) (interface{}, error) {
		return s.buildDashboard(ctx)
	})
	return dashboard, err
}

func (s *Service) buildDashboard(ctx context.Context) (Dashboard, error) {
	var (
		stock   []ProductStock
		drafts  DraftCounts
		recent  []RecentMovement
		totals  []WarehouseTotals
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stock, err = s.repo.ProductStock(ctx)
		return
	})
	g.Go(func() (err error) {
		drafts, err = s.repo.DraftCounts(ctx)
		return
	})
	g.Go(func() (err error) {
		recent, err = s.repo.RecentMovements(ctx, recentMovementLimit)
		return
	})
	g.Go(func() (err error) {
		totals, err = s.repo.WarehouseTotals(ctx)
		return
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	kpis := KPIs{
		TotalProducts:     len(stock),
		PendingReceipts:   drafts.Receipts,
		PendingDeliveries: drafts.Deliveries,
		InternalTransfers: drafts.Transfers,
	}
	for _, p := range stock {
		switch {
		case p.Total == 0:
			kpis.OutOfStockItems++
		case p.Total <= p.MinStockLevel:
			kpis.LowStockItems++
		}
	}

	status := make([]WarehouseStatus, 0, len(totals))
	for _, wt := range totals {
		status = append(status, WarehouseStatus{
			ID:         wt.ID,
			Name:       wt.Name,
			Location:   wt.Location,
			Capacity:   utilizationPercent(wt.TotalItems, wt.DeclaredCapacity),
			TotalItems: wt.TotalItems,
		})
	}
	if recent == nil {
		recent = []RecentMovement{}
	}
	return Dashboard{KPIs: kpis, RecentMovements: recent, WarehouseStatus: status}, nil
}

// LowStock lists products at or below their minimum level with stock on
// hand. The nightly scan job reads this.
func (s *Service) LowStock(ctx context.Context) ([]ProductStock, error) {
	stock, err := s.repo.ProductStock(ctx)
	if err != nil {
		return nil, err
	}
	var low []ProductStock
	for _, p := range stock {
		if p.Total > 0 && p.Total <= p.MinStockLevel {
			low = append(low, p)
		}
	}
	return low, nil
}

const nominalCapacity = 1000

func utilizationPercent(totalItems, declared int64) int {
	capacity := declared
	if capacity <= 0 {
		capacity = nominalCapacity
	}
	pct := int(totalItems * 100 / capacity)
	if pct > 100 {
		pct = 100
	}
	return pct
}
