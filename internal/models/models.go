package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses
const (
	OrderStatusProcessing = "processing"
	OrderStatusSent       = "sent"
	OrderStatusDelivered  = "delivered"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusProcessing, OrderStatusSent, OrderStatusDelivered:
		return true
	}
	return false
}

// Role names
const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
)

// Client represents a customer, distinct from an authenticated staff User.
type Client struct {
	ID        string       `db:"id" json:"id"`
	Name      string       `db:"name" json:"name"`
	Email     string       `db:"email" json:"email"`
	Phone     string       `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
	DeletedAt sql.NullTime `db:"deleted_at" json:"-"`
}

// Product represents a product in the catalog.
type Product struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description,omitempty"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Stock       int             `db:"stock" json:"stock"`
	Discount    decimal.Decimal `db:"discount" json:"discount"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	Category    string          `db:"category" json:"category,omitempty"`
	ImageURL    string          `db:"image_url" json:"image_url,omitempty"`
	UserID      sql.NullString  `db:"user_id" json:"user_id,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
	DeletedAt   sql.NullTime    `db:"deleted_at" json:"-"`
}

// CartItem is a (client, product, quantity) pre-order line in the shopping cart.
type CartItem struct {
	ID        string       `db:"id" json:"id"`
	Quantity  int          `db:"quantity" json:"quantity"`
	ClientID  string       `db:"client_id" json:"client_id"`
	ProductID string       `db:"product_id" json:"product_id"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
	DeletedAt sql.NullTime `db:"deleted_at" json:"-"`

	Product *Product `db:"-" json:"product,omitempty"`
}

// Order represents a customer order.
type Order struct {
	ID         string          `db:"id" json:"id"`
	TotalPrice decimal.Decimal `db:"total_price" json:"total_price"`
	Status     string          `db:"status" json:"status"`
	ClientID   string          `db:"client_id" json:"client_id"`
	UserID     sql.NullString  `db:"user_id" json:"user_id,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
	DeletedAt  sql.NullTime    `db:"deleted_at" json:"-"`

	Client *Client        `db:"-" json:"client,omitempty"`
	Lines  []OrderProduct `db:"-" json:"order_products,omitempty"`
}

// OrderProduct is a line of an order; (order_id, product_id) is unique.
type OrderProduct struct {
	ID        string `db:"id" json:"id"`
	OrderID   string `db:"order_id" json:"order_id"`
	ProductID string `db:"product_id" json:"product_id"`
	Quantity  int    `db:"quantity" json:"quantity"`

	Product *Product `db:"-" json:"product,omitempty"`
}

// User is an authenticated staff member.
type User struct {
	ID        string       `db:"id" json:"id"`
	Username  string       `db:"username" json:"username"`
	Email     string       `db:"email" json:"email"`
	Password  string       `db:"password" json:"-"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
	DeletedAt sql.NullTime `db:"deleted_at" json:"-"`

	Roles []Role `db:"-" json:"roles,omitempty"`
}

// Role represents an access role (admin or seller).
type Role struct {
	ID          string       `db:"id" json:"id"`
	Name        string       `db:"name" json:"name"`
	Description string       `db:"description" json:"description"`
	IsActive    bool         `db:"is_active" json:"is_active"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
	DeletedAt   sql.NullTime `db:"deleted_at" json:"-"`
}

// UserRole links a user to a role.
type UserRole struct {
	ID     string `db:"id" json:"id"`
	UserID string `db:"user_id" json:"user_id"`
	RoleID string `db:"role_id" json:"role_id"`
}

// Actor is the authenticated identity attached to a request by the auth
// middleware and passed explicitly into write operations.
type Actor struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether the actor carries the given role.
func (a Actor) HasRole(name string) bool {
	for _, r := range a.Roles {
		if r == name {
			return true
		}
	}
	return false
}
