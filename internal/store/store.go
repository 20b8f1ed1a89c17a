package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shop-service/internal/errs"
	"shop-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// CreateClient inserts a new client. Duplicate name or email maps to a
// conflict error.
func (s *Store) CreateClient(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := s.db.GetContext(ctx, client, query,
		client.ID, client.Name, client.Email, client.Phone)
	if isUniqueViolation(err) {
		return errs.Conflict("Client already exists")
	}
	return err
}

// GetClientByID retrieves a client by ID
func (s *Store) GetClientByID(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	err := s.db.GetContext(ctx, &client,
		"SELECT * FROM clients WHERE id = $1 AND deleted_at IS NULL", id)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("Client not found")
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// ListClients retrieves all clients
func (s *Store) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := s.db.SelectContext(ctx, &clients,
		"SELECT * FROM clients WHERE deleted_at IS NULL ORDER BY created_at DESC")
	return clients, err
}

// UpdateClient updates a client's fields
func (s *Store) UpdateClient(ctx context.Context, client *models.Client) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE clients SET name = $1, email = $2, phone = $3, updated_at = NOW()
		 WHERE id = $4 AND deleted_at IS NULL`,
		client.Name, client.Email, client.Phone, client.ID)
	if isUniqueViolation(err) {
		return errs.Conflict("Client already exists")
	}
	if err != nil {
		return err
	}
	return requireRow(res, "Client not found")
}

// DeleteClient soft-deletes a client
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE clients SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	return requireRow(res, "Client not found")
}

// CreateProduct inserts a new product
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, stock, discount, is_active, category, image_url, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := s.db.GetContext(ctx, product, query,
		product.ID, product.Name, product.Description, product.Price, product.Stock,
		product.Discount, product.IsActive, product.Category, product.ImageURL, product.UserID)
	if isUniqueViolation(err) {
		return errs.Conflict("Product already exists")
	}
	return err
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"SELECT * FROM products WHERE id = $1 AND deleted_at IS NULL", id)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts retrieves all products
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE deleted_at IS NULL ORDER BY created_at DESC")
	return products, err
}

// GetProductsByIDs retrieves multiple products by IDs
func (s *Store) GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In(
		"SELECT * FROM products WHERE id IN (?) AND deleted_at IS NULL", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var products []models.Product
	err = s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// UpdateProduct updates a product's general fields. Stock and discount are
// mutated only through their dedicated paths.
func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products
		 SET name = $1, description = $2, price = $3, is_active = $4,
		     category = $5, image_url = $6, updated_at = NOW()
		 WHERE id = $7 AND deleted_at IS NULL`,
		product.Name, product.Description, product.Price, product.IsActive,
		product.Category, product.ImageURL, product.ID)
	if isUniqueViolation(err) {
		return errs.Conflict("Product already exists")
	}
	if err != nil {
		return err
	}
	return requireRow(res, "Product not found")
}

// UpdateProductDiscount persists the discount in isolation
func (s *Store) UpdateProductDiscount(ctx context.Context, id string, discount decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET discount = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL",
		discount, id)
	if err != nil {
		return err
	}
	return requireRow(res, "Product not found")
}

// DeleteProduct soft-deletes a product
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	return requireRow(res, "Product not found")
}

func requireRow(res sql.Result, notFoundMsg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFound(notFoundMsg)
	}
	return nil
}
