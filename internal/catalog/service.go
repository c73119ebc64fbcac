package catalog

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

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Product{}, ErrInvalidProductID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if err := s.validate(product); err != nil {
		return Product{}, err
	}
	product.ID = uuid.NewString()
	return s.repo.Create(ctx, product)
}

// Update replaces the mutable fields of a product. SKU changes are rejected
// by comparing against the stored record.
func (s *Service) Update(ctx context.Context, id string, product Product) (Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Product{}, ErrInvalidProductID
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if product.SKU == "" {
		product.SKU = current.SKU
	}
	if product.SKU != current.SKU {
		return Product{}, ErrSKUImmutable
	}
	if err := s.validate(product); err != nil {
		return Product{}, err
	}
	if err := s.repo.Update(ctx, id, product); err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a product unless inventory level rows still reference it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidProductID
	}
	hasStock, err := s.repo.HasInventory(ctx, id)
	if err != nil {
		return err
	}
	if hasStock {
		return ErrProductHasStock
	}
	return s.repo.Delete(ctx, id)
}
