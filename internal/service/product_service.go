package service

import (
	"context"
	"database/sql"

	"shop-service/internal/errs"
	"shop-service/internal/models"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductStore is the storage surface the catalog needs.
type ProductStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	UpdateProductDiscount(ctx context.Context, id string, discount decimal.Decimal) error
	DeleteProduct(ctx context.Context, id string) error
}

// ProductCache is a read-through cache over catalog reads; nil disables it.
type ProductCache interface {
	GetProduct(ctx context.Context, id string) (*models.Product, bool)
	SetProduct(ctx context.Context, product *models.Product)
	GetProductList(ctx context.Context) ([]models.Product, bool)
	SetProductList(ctx context.Context, products []models.Product)
	InvalidateProduct(ctx context.Context, id string)
}

// ProductService handles catalog business logic
type ProductService struct {
	store  ProductStore
	cache  ProductCache
	logger *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(store ProductStore, cache ProductCache) *ProductService {
	return &ProductService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// CreateProductRequest carries new product data
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock"`
	Discount    decimal.Decimal `json:"discount"`
	IsActive    *bool           `json:"is_active"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
}

// UpdateProductRequest carries a partial product update. Discount is rejected
// here; it is mutated only through ApplyDiscount.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Discount    *decimal.Decimal `json:"discount"`
	IsActive    *bool            `json:"is_active"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"image_url"`
}

// Create validates the discount range and persists the product with the
// actor as owner.
func (s *ProductService) Create(ctx context.Context, actor models.Actor, req CreateProductRequest) (*models.Product, error) {
	if err := validateDiscount(req.Discount); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := &models.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Discount:    req.Discount,
		IsActive:    isActive,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if actor.ID != "" {
		product.UserID = sql.NullString{String: actor.ID, Valid: true}
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx, product.ID)
	s.logger.Info("Product created",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name))
	return product, nil
}

// Get retrieves a product, cache first.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	if s.cache != nil {
		if product, ok := s.cache.GetProduct(ctx, id); ok {
			return product, nil
		}
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetProduct(ctx, product)
	}
	return product, nil
}

// List retrieves the catalog, cache first.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		if products, ok := s.cache.GetProductList(ctx); ok {
			return products, nil
		}
	}

	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetProductList(ctx, products)
	}
	return products, nil
}

// Update applies a partial update to general fields. A discount in the
// payload is rejected; ApplyDiscount is the only discount path.
func (s *ProductService) Update(ctx context.Context, id string, req UpdateProductRequest) (*models.Product, error) {
	if req.Discount != nil {
		return nil, errs.Invalid("Discount cannot be updated using this endpoint")
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return product, nil
}

// ApplyDiscount validates the range and persists the discount in isolation.
func (s *ProductService) ApplyDiscount(ctx context.Context, id string, discount decimal.Decimal) (*models.Product, error) {
	if err := validateDiscount(discount); err != nil {
		return nil, err
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateProductDiscount(ctx, id, discount); err != nil {
		return nil, err
	}
	product.Discount = discount

	s.invalidate(ctx, id)
	s.logger.Info("Discount applied",
		zap.String("product_id", id),
		zap.String("discount", discount.String()))
	return product, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.GetProductByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		s.cache.InvalidateProduct(ctx, id)
	}
}

var discountCeiling = decimal.NewFromInt(100)

func validateDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() || discount.GreaterThan(discountCeiling) {
		return errs.Invalid("Invalid discount percentage. Must be between 0 and 100.")
	}
	return nil
}
