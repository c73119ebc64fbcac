package warehouse

import (
	"context"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Warehouse, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Warehouse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Warehouse{}, ErrInvalidWarehouseID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, warehouse Warehouse) (Warehouse, error) {
	if warehouse.Type == "" {
		warehouse.Type = TypeWarehouse
	}
	if err := s.validate(warehouse); err != nil {
		return Warehouse{}, err
	}
	warehouse.ID = uuid.NewString()
	return s.repo.Create(ctx, warehouse)
}

func (s *Service) Update(ctx context.Context, id string, warehouse Warehouse) (Warehouse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Warehouse{}, ErrInvalidWarehouseID
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Warehouse{}, err
	}
	// Absent fields keep their stored values.
	if warehouse.Name == "" {
		warehouse.Name = current.Name
	}
	if warehouse.Location == "" {
		warehouse.Location = current.Location
	}
	if warehouse.Type == "" {
		warehouse.Type = current.Type
	}
	if err := s.validate(warehouse); err != nil {
		return Warehouse{}, err
	}
	if err := s.repo.Update(ctx, id, warehouse); err != nil {
		return Warehouse{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a warehouse unless any inventory level row references it.
// The guard is on row presence, not on positive quantity.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidWarehouseID
	}
	hasStock, err := s.repo.HasInventory(ctx, id)
	if err != nil {
		return err
	}
	if hasStock {
		return ErrWarehouseHasStock
	}
	return s.repo.Delete(ctx, id)
}
