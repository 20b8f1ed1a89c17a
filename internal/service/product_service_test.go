package service

import (
	"context"
	"testing"

	"shop-service/internal/errs"
	"shop-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCache is an in-process stand-in for the Redis product cache.
type fakeCache struct {
	products     map[string]*models.Product
	list         []models.Product
	hasList      bool
	invalidated  []string
	hits, misses int
}

func newFakeCache() *fakeCache {
	return &fakeCache{products: make(map[string]*models.Product)}
}

func (c *fakeCache) GetProduct(_ context.Context, id string) (*models.Product, bool) {
	if product, ok := c.products[id]; ok {
		c.hits++
		cp := *product
		return &cp, true
	}
	c.misses++
	return nil, false
}

func (c *fakeCache) SetProduct(_ context.Context, product *models.Product) {
	cp := *product
	c.products[product.ID] = &cp
}

func (c *fakeCache) GetProductList(_ context.Context) ([]models.Product, bool) {
	if !c.hasList {
		return nil, false
	}
	return c.list, true
}

func (c *fakeCache) SetProductList(_ context.Context, products []models.Product) {
	c.list = products
	c.hasList = true
}

func (c *fakeCache) InvalidateProduct(_ context.Context, id string) {
	delete(c.products, id)
	c.list = nil
	c.hasList = false
	c.invalidated = append(c.invalidated, id)
}

func TestProductCreateValidatesDiscount(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(newMemStore(), nil)

	_, err := svc.Create(ctx, models.Actor{}, CreateProductRequest{
		Name:     "Desk",
		Price:    decimal.RequireFromString("10.00"),
		Discount: decimal.RequireFromString("101"),
	})
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))

	_, err = svc.Create(ctx, models.Actor{}, CreateProductRequest{
		Name:     "Desk",
		Price:    decimal.RequireFromString("10.00"),
		Discount: decimal.RequireFromString("-1"),
	})
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))
}

func TestProductCreateSetsOwner(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	svc := NewProductService(m, nil)

	product, err := svc.Create(ctx, models.Actor{ID: "user-1"}, CreateProductRequest{
		Name:  "Desk",
		Price: decimal.RequireFromString("10.00"),
		Stock: 5,
	})
	require.NoError(t, err)
	assert.True(t, product.IsActive, "products default to active")
	assert.Equal(t, "user-1", product.UserID.String)

	stored, err := m.GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Stock)
}

func TestProductCreateDuplicateName(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(newMemStore(), nil)

	_, err := svc.Create(ctx, models.Actor{}, CreateProductRequest{
		Name: "Desk", Price: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, models.Actor{}, CreateProductRequest{
		Name: "Desk", Price: decimal.RequireFromString("12.00"),
	})
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestProductUpdateRejectsDiscount(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	product := m.addProduct(models.Product{ID: "product-1", Name: "Desk", Price: decimal.RequireFromString("10.00")})
	svc := NewProductService(m, nil)

	discount := decimal.RequireFromString("20")
	_, err := svc.Update(ctx, product.ID, UpdateProductRequest{Discount: &discount})
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))
	assert.Contains(t, err.Error(), "Discount cannot be updated")
}

func TestProductApplyDiscount(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	product := m.addProduct(models.Product{ID: "product-1", Name: "Desk", Price: decimal.RequireFromString("10.00")})
	cache := newFakeCache()
	svc := NewProductService(m, cache)

	updated, err := svc.ApplyDiscount(ctx, product.ID, decimal.RequireFromString("25"))
	require.NoError(t, err)
	assert.True(t, updated.Discount.Equal(decimal.RequireFromString("25")))
	assert.Contains(t, cache.invalidated, product.ID)

	stored, err := m.GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, stored.Discount.Equal(decimal.RequireFromString("25")))

	_, err = svc.ApplyDiscount(ctx, product.ID, decimal.RequireFromString("150"))
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))
}

func TestProductGetUsesCache(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	product := m.addProduct(models.Product{ID: "product-1", Name: "Desk", Price: decimal.RequireFromString("10.00")})
	cache := newFakeCache()
	svc := NewProductService(m, cache)

	first, err := svc.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.misses)

	// Mutate the row behind the cache; the second read must come from cache.
	m.products[product.ID].Name = "Renamed"

	second, err := svc.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.Name, second.Name)
}

func TestProductUpdateInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	product := m.addProduct(models.Product{ID: "product-1", Name: "Desk", Price: decimal.RequireFromString("10.00")})
	cache := newFakeCache()
	svc := NewProductService(m, cache)

	_, err := svc.Get(ctx, product.ID)
	require.NoError(t, err)

	name := "Standing Desk"
	_, err = svc.Update(ctx, product.ID, UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Contains(t, cache.invalidated, product.ID)

	fresh, err := svc.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Standing Desk", fresh.Name)
}

func TestProductDelete(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	product := m.addProduct(models.Product{ID: "product-1", Name: "Desk", Price: decimal.RequireFromString("10.00")})
	svc := NewProductService(m, nil)

	require.NoError(t, svc.Delete(ctx, product.ID))

	_, err := svc.Get(ctx, product.ID)
	assert.True(t, errs.IsNotFound(err))

	err = svc.Delete(ctx, "missing")
	assert.True(t, errs.IsNotFound(err))
}
