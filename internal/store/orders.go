package store

import (
	"context"
	"database/sql"
	"fmt"

	"shop-service/internal/errs"
	"shop-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// OrderFilter narrows order listings. Zero-value fields are ignored.
type OrderFilter struct {
	Status   string
	ClientID string
	UserID   string
}

// CreateOrder persists an order, its lines, the guarded stock decrements and
// the cart cleanup in a single transaction. A quantity exceeding the product's
// current stock aborts the whole transaction with an insufficient-stock error.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, lines []models.OrderProduct, cartItemIDs []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, line := range lines {
		if err := decrementStockTx(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO orders (id, total_price, status, client_id, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`
	if err := tx.GetContext(ctx, order, query,
		order.ID, order.TotalPrice, order.Status, order.ClientID, order.UserID); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range lines {
		lines[i].OrderID = order.ID
		if err := insertOrderLineTx(ctx, tx, &lines[i]); err != nil {
			return err
		}
	}

	if len(cartItemIDs) > 0 {
		q, args, err := sqlx.In(
			"UPDATE shopping_cart SET deleted_at = NOW() WHERE id IN (?) AND deleted_at IS NULL",
			cartItemIDs)
		if err != nil {
			return err
		}
		q = tx.Rebind(q)
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("failed to clear cart items: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order with its client and lines
func (s *Store) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE id = $1 AND deleted_at IS NULL", id)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("Order not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	if err := s.attachOrderRelations(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders retrieves orders matching the filter, newest first, with client
// and lines attached.
func (s *Store) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := "SELECT * FROM orders WHERE deleted_at IS NULL"
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		query += fmt.Sprintf(" AND client_id = $%d", len(args))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	var orders []models.Order
	if err := s.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := s.attachOrderRelations(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// ListOrderLines retrieves every line belonging to a live order, with
// products attached.
func (s *Store) ListOrderLines(ctx context.Context) ([]models.OrderProduct, error) {
	var lines []models.OrderProduct
	err := s.db.SelectContext(ctx, &lines,
		`SELECT op.* FROM order_products op
		 JOIN orders o ON o.id = op.order_id
		 WHERE o.deleted_at IS NULL`)
	if err != nil {
		return nil, err
	}

	for i := range lines {
		product, err := s.GetProductByID(ctx, lines[i].ProductID)
		if err != nil && !errs.IsNotFound(err) {
			return nil, err
		}
		lines[i].Product = product
	}
	return lines, nil
}

// UpdateOrderStatus persists a new order status
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL",
		status, orderID)
	if err != nil {
		return err
	}
	return requireRow(res, "Order not found")
}

// ReplaceOrderLines swaps an order's lines in a single transaction: stock held
// by the old lines is restored, the new quantities are decremented with a
// floor guard, the lines are replaced and the total updated. Any guard failure
// rolls back everything, including the restores.
func (s *Store) ReplaceOrderLines(ctx context.Context, orderID string, oldLines, newLines []models.OrderProduct, total decimal.Decimal) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, line := range oldLines {
		if err := restoreStockTx(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return err
		}
	}

	for _, line := range newLines {
		if err := decrementStockTx(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM order_products WHERE order_id = $1", orderID); err != nil {
		return fmt.Errorf("failed to delete order lines: %w", err)
	}

	for i := range newLines {
		newLines[i].OrderID = orderID
		if err := insertOrderLineTx(ctx, tx, &newLines[i]); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE orders SET total_price = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL",
		total, orderID)
	if err != nil {
		return err
	}
	if err := requireRow(res, "Order not found"); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteOrder removes an order and its lines in one transaction, restoring
// the stock each line held.
func (s *Store) DeleteOrder(ctx context.Context, orderID string, lines []models.OrderProduct) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, line := range lines {
		if err := restoreStockTx(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM order_products WHERE order_id = $1", orderID); err != nil {
		return fmt.Errorf("failed to delete order lines: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE orders SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", orderID)
	if err != nil {
		return err
	}
	if err := requireRow(res, "Order not found"); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) attachOrderRelations(ctx context.Context, order *models.Order) error {
	client, err := s.GetClientByID(ctx, order.ClientID)
	if err != nil && !errs.IsNotFound(err) {
		return err
	}
	order.Client = client

	var lines []models.OrderProduct
	if err := s.db.SelectContext(ctx, &lines,
		"SELECT * FROM order_products WHERE order_id = $1", order.ID); err != nil {
		return err
	}

	for i := range lines {
		product, err := s.GetProductByID(ctx, lines[i].ProductID)
		if err != nil && !errs.IsNotFound(err) {
			return err
		}
		lines[i].Product = product
	}
	order.Lines = lines
	return nil
}

// decrementStockTx atomically decrements product stock with a floor guard.
// Zero rows affected means the product is missing or short on stock.
func decrementStockTx(ctx context.Context, tx *sqlx.Tx, productID string, quantity int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE products SET stock = stock - $1, updated_at = NOW()
		 WHERE id = $2 AND deleted_at IS NULL AND stock >= $1`,
		quantity, productID)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			"SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND deleted_at IS NULL)",
			productID); err != nil {
			return err
		}
		if !exists {
			return errs.NotFound("Product not found: %s", productID)
		}
		return errs.Invalid("Insufficient stock for product %s", productID)
	}
	return nil
}

func restoreStockTx(ctx context.Context, tx *sqlx.Tx, productID string, quantity int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE products SET stock = stock + $1, updated_at = NOW()
		 WHERE id = $2 AND deleted_at IS NULL`,
		quantity, productID)
	if err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}
	return nil
}

func insertOrderLineTx(ctx context.Context, tx *sqlx.Tx, line *models.OrderProduct) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO order_products (id, order_id, product_id, quantity) VALUES ($1, $2, $3, $4)",
		line.ID, line.OrderID, line.ProductID, line.Quantity)
	if isUniqueViolation(err) {
		return errs.Conflict("Duplicate product %s in order", line.ProductID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert order line: %w", err)
	}
	return nil
}
