package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atlas-wms/atlas-wms/internal/platform/httpx"
)

type memoryRepo struct {
	mu       sync.Mutex
	products map[string]Product
	stocked  map[string]bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		products: make(map[string]Product),
		stocked:  make(map[string]bool),
	}
}

func (r *memoryRepo) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []Product
	for _, p := range r.products {
		if filters.Search != "" {
			needle := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.SKU), needle) &&
				!strings.Contains(strings.ToLower(p.Category), needle) {
				continue
			}
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if filters.Limit > 0 && len(all) > filters.Limit {
		all = all[:filters.Limit]
	}
	return all, total, nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *memoryRepo) Create(ctx context.Context, product Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.products {
		if existing.SKU == product.SKU {
			return Product{}, ErrSKUExists
		}
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	r.products[product.ID] = product
	return product, nil
}

func (r *memoryRepo) Update(ctx context.Context, id string, product Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.products[id]
	if !ok {
		return ErrProductNotFound
	}
	product.ID = id
	product.SKU = current.SKU
	product.CreatedAt = current.CreatedAt
	product.UpdatedAt = time.Now()
	r.products[id] = product
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memoryRepo) HasInventory(ctx context.Context, productID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stocked[productID], nil
}

func validProduct() Product {
	return Product{SKU: "WID-001", Name: "Widget", UOM: "pcs", MinStockLevel: 5, Category: "widgets"}
}

func TestCreateProduct(t *testing.T) {
	svc := NewService(newMemoryRepo())

	created, err := svc.Create(context.Background(), validProduct())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "WID-001", created.SKU)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*Product)
	}{
		{"missing sku", func(p *Product) { p.SKU = " " }},
		{"missing name", func(p *Product) { p.Name = "" }},
		{"missing uom", func(p *Product) { p.UOM = "" }},
		{"negative min stock", func(p *Product) { p.MinStockLevel = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProduct()
			tc.mutate(&p)
			_, err := svc.Create(ctx, p)
			require.ErrorIs(t, err, httpx.ErrValidation)
		})
	}
}

func TestCreateDuplicateSKU(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, validProduct())
	require.NoError(t, err)

	dup := validProduct()
	dup.Name = "Another Widget"
	_, err = svc.Create(ctx, dup)
	require.ErrorIs(t, err, ErrSKUExists)
}

func TestUpdateKeepsSKUImmutable(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validProduct())
	require.NoError(t, err)

	changed := created
	changed.SKU = "WID-999"
	_, err = svc.Update(ctx, created.ID, changed)
	require.ErrorIs(t, err, ErrSKUImmutable)

	// Omitting the SKU keeps the stored one.
	changed.SKU = ""
	changed.Name = "Widget v2"
	updated, err := svc.Update(ctx, created.ID, changed)
	require.NoError(t, err)
	require.Equal(t, "WID-001", updated.SKU)
	require.Equal(t, "Widget v2", updated.Name)
}

func TestDeleteBlockedWhileStocked(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validProduct())
	require.NoError(t, err)

	repo.stocked[created.ID] = true
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrProductHasStock)

	repo.stocked[created.ID] = false
	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestInvalidProductID(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Get(ctx, "not-a-uuid")
	require.ErrorIs(t, err, ErrInvalidProductID)
	require.ErrorIs(t, svc.Delete(ctx, "not-a-uuid"), ErrInvalidProductID)
}

func TestListSearch(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	for _, p := range []Product{
		{SKU: "WID-001", Name: "Widget", UOM: "pcs", Category: "widgets"},
		{SKU: "GAD-001", Name: "Gadget", UOM: "pcs", Category: "gadgets"},
		{SKU: "WID-002", Name: "Deluxe Widget", UOM: "pcs", Category: "widgets"},
	} {
		_, err := svc.Create(ctx, p)
		require.NoError(t, err)
	}

	results, total, err := svc.List(ctx, ListFilters{Search: "widget"})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, results, 2)

	// Search matches the category column too.
	results, total, err = svc.List(ctx, ListFilters{Search: "gadgets"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "GAD-001", results[0].SKU)
}
