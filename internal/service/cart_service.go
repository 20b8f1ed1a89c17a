package service

import (
	"context"

	"shop-service/internal/errs"
	"shop-service/internal/models"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartStore is the storage surface the shopping cart needs.
type CartStore interface {
	GetClientByID(ctx context.Context, id string) (*models.Client, error)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	CreateCartItem(ctx context.Context, item *models.CartItem) error
	GetCartItemByID(ctx context.Context, id string) (*models.CartItem, error)
	GetCartItemByClientProduct(ctx context.Context, clientID, productID string) (*models.CartItem, error)
	ListCartItems(ctx context.Context) ([]models.CartItem, error)
	UpdateCartItem(ctx context.Context, item *models.CartItem) error
	DeleteCartItem(ctx context.Context, id string) error
}

// CartService handles shopping cart business logic
type CartService struct {
	store  CartStore
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store CartStore) *CartService {
	return &CartService{store: store, logger: util.GetLogger()}
}

// AddToCartRequest adds a quantity of a product to a client's cart
type AddToCartRequest struct {
	ClientID  string `json:"client_id" binding:"required"`
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest is a partial cart line update
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity"`
}

// AddToCart merges the quantity into an existing (client, product) line or
// creates a new one. A pair never holds two lines.
func (s *CartService) AddToCart(ctx context.Context, req AddToCartRequest) (*models.CartItem, error) {
	client, err := s.store.GetClientByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	product, err := s.store.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetCartItemByClientProduct(ctx, client.ID, product.ID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.Quantity += req.Quantity
		if err := s.store.UpdateCartItem(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	item := &models.CartItem{
		ID:        uuid.New().String(),
		Quantity:  req.Quantity,
		ClientID:  client.ID,
		ProductID: product.ID,
	}
	if err := s.store.CreateCartItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Added to cart",
		zap.String("client_id", client.ID),
		zap.String("product_id", product.ID),
		zap.Int("quantity", req.Quantity))
	return item, nil
}

// List retrieves all cart lines
func (s *CartService) List(ctx context.Context) ([]models.CartItem, error) {
	return s.store.ListCartItems(ctx)
}

// UpdateItem merges partial fields into an existing line
func (s *CartService) UpdateItem(ctx context.Context, id string, req UpdateCartItemRequest) (*models.CartItem, error) {
	item, err := s.store.GetCartItemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, errs.Invalid("Quantity must be at least 1")
		}
		item.Quantity = *req.Quantity
	}

	if err := s.store.UpdateCartItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a cart line
func (s *CartService) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.store.GetCartItemByID(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteCartItem(ctx, id)
}
