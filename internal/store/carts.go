package store

import (
	"context"
	"database/sql"

	"shop-service/internal/errs"
	"shop-service/internal/models"
)

// CreateCartItem inserts a new cart line
func (s *Store) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	query := `
		INSERT INTO shopping_cart (id, quantity, client_id, product_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	return s.db.GetContext(ctx, item, query,
		item.ID, item.Quantity, item.ClientID, item.ProductID)
}

// GetCartItemByID retrieves a cart line by ID
func (s *Store) GetCartItemByID(ctx context.Context, id string) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item,
		"SELECT * FROM shopping_cart WHERE id = $1 AND deleted_at IS NULL", id)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("Item not found in the cart")
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetCartItemByClientProduct finds the line for a (client, product) pair, if any.
func (s *Store) GetCartItemByClientProduct(ctx context.Context, clientID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item,
		`SELECT * FROM shopping_cart
		 WHERE client_id = $1 AND product_id = $2 AND deleted_at IS NULL`,
		clientID, productID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListCartItems retrieves all cart lines with their products attached
func (s *Store) ListCartItems(ctx context.Context) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM shopping_cart WHERE deleted_at IS NULL ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}

	for i := range items {
		product, err := s.GetProductByID(ctx, items[i].ProductID)
		if err != nil && !errs.IsNotFound(err) {
			return nil, err
		}
		items[i].Product = product
	}
	return items, nil
}

// UpdateCartItem updates a cart line's quantity
func (s *Store) UpdateCartItem(ctx context.Context, item *models.CartItem) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE shopping_cart SET quantity = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL",
		item.Quantity, item.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "Item not found in the cart")
}

// DeleteCartItem soft-deletes a cart line
func (s *Store) DeleteCartItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE shopping_cart SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	return requireRow(res, "Item not found in the cart")
}
