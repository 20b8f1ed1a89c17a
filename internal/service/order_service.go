package service

import (
	"context"
	"time"

	"shop-service/internal/errs"
	"shop-service/internal/models"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderStore is the storage surface the order workflow needs. *store.Store
// satisfies it; tests substitute an in-memory fake.
type OrderStore interface {
	GetClientByID(ctx context.Context, id string) (*models.Client, error)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	CreateOrder(ctx context.Context, order *models.Order, lines []models.OrderProduct, cartItemIDs []string) error
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, filter store.OrderFilter) ([]models.Order, error)
	ListOrderLines(ctx context.Context) ([]models.OrderProduct, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
	ReplaceOrderLines(ctx context.Context, orderID string, oldLines, newLines []models.OrderProduct, total decimal.Decimal) error
	DeleteOrder(ctx context.Context, orderID string, lines []models.OrderProduct) error
}

// OrderEventPublisher publishes order domain events.
type OrderEventPublisher interface {
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}

// ProductCacheInvalidator drops cached catalog entries for products whose
// stock an order mutation touched; nil disables it.
type ProductCacheInvalidator interface {
	InvalidateProduct(ctx context.Context, id string)
}

// OrderService handles the order lifecycle workflow
type OrderService struct {
	store     OrderStore
	publisher OrderEventPublisher
	cache     ProductCacheInvalidator
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store OrderStore, publisher OrderEventPublisher, cache ProductCacheInvalidator) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		cache:     cache,
		logger:    util.GetLogger(),
	}
}

func (s *OrderService) invalidateProducts(ctx context.Context, lines []models.OrderProduct) {
	if s.cache == nil {
		return
	}
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			s.cache.InvalidateProduct(ctx, line.ProductID)
		}
	}
}

// OrderLineRequest is a requested (product, quantity) pair
type OrderLineRequest struct {
	ProductID string `json:"id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	ClientID    string             `json:"client_id" binding:"required"`
	Products    []OrderLineRequest `json:"products" binding:"required,min=1"`
	CartItemIDs []string           `json:"shopping_carts"`
}

// UpdateOrderRequest replaces an order's lines
type UpdateOrderRequest struct {
	Products []OrderLineRequest `json:"products" binding:"required,min=1"`
}

// Create builds an order for the client from the requested lines, snapshots
// the total from current prices, decrements stock and clears the referenced
// cart items. All mutations commit atomically; an insufficient quantity for
// any product rejects the whole request.
func (s *OrderService) Create(ctx context.Context, actor models.Actor, req CreateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Create")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderCreateLatency.Observe(time.Since(start).Seconds())
	}()

	client, err := s.store.GetClientByID(ctx, req.ClientID)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("client_not_found").Inc()
		return nil, err
	}

	lines := make([]models.OrderProduct, 0, len(req.Products))
	seen := make(map[string]bool, len(req.Products))
	total := decimal.Zero

	for _, item := range req.Products {
		if seen[item.ProductID] {
			util.OrdersFailedTotal.WithLabelValues("duplicate_line").Inc()
			return nil, errs.Invalid("Duplicate product %s in order", item.ProductID)
		}
		seen[item.ProductID] = true

		product, err := s.store.GetProductByID(ctx, item.ProductID)
		if err != nil {
			util.OrdersFailedTotal.WithLabelValues("product_not_found").Inc()
			return nil, err
		}

		if item.Quantity > product.Stock {
			util.OrdersFailedTotal.WithLabelValues("insufficient_stock").Inc()
			util.StockInsufficientTotal.Inc()
			return nil, errs.Invalid("Insufficient stock for product %s: requested %d, available %d",
				product.ID, item.Quantity, product.Stock)
		}

		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		lines = append(lines, models.OrderProduct{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Quantity:  item.Quantity,
		})
	}

	order := &models.Order{
		ID:         uuid.New().String(),
		TotalPrice: total,
		Status:     models.OrderStatusProcessing,
		ClientID:   client.ID,
	}
	if actor.ID != "" {
		order.UserID.String = actor.ID
		order.UserID.Valid = true
	}

	if err := s.store.CreateOrder(ctx, order, lines, req.CartItemIDs); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, err
	}

	s.invalidateProducts(ctx, lines)
	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("client_id", client.ID),
		zap.String("total_price", total.String()))

	return s.store.GetOrderByID(ctx, order.ID)
}

// Get retrieves an order with client and lines
func (s *OrderService) Get(ctx context.Context, orderID string) (*models.Order, error) {
	return s.store.GetOrderByID(ctx, orderID)
}

// List retrieves orders matching the filter
func (s *OrderService) List(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	return s.store.ListOrders(ctx, filter)
}

// ListLines retrieves every line of every live order, products attached
func (s *OrderService) ListLines(ctx context.Context) ([]models.OrderProduct, error) {
	return s.store.ListOrderLines(ctx)
}

// ListByClient retrieves a client's orders
func (s *OrderService) ListByClient(ctx context.Context, clientID string) ([]models.Order, error) {
	if clientID == "" {
		return nil, errs.Invalid("Client ID is required")
	}
	return s.store.ListOrders(ctx, store.OrderFilter{ClientID: clientID})
}

// UpdateStatus persists a new status and publishes an OrderStatusChanged
// event for the notification relay. Any known status may follow any other;
// publishing is fire-and-forget relative to the caller.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, newStatus string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	if !models.ValidOrderStatus(newStatus) {
		return nil, errs.Invalid("Unknown order status: %s", newStatus)
	}

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	oldStatus := order.Status
	if err := s.store.UpdateOrderStatus(ctx, orderID, newStatus); err != nil {
		return nil, err
	}
	order.Status = newStatus

	util.OrderStatusChangesTotal.WithLabelValues(newStatus).Inc()

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:   order.ID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}
	if order.Client != nil {
		event.ClientEmail = order.Client.Email
		event.ClientName = order.Client.Name
	}

	if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}

	return order, nil
}

// UpdateLines replaces an order's lines, revert-then-reapply: stock held by
// the current lines is restored, the requested quantities are decremented
// against the restored stock, and the total is recomputed. The swap is
// atomic; an insufficient quantity aborts without any retained mutation.
func (s *OrderService) UpdateLines(ctx context.Context, orderID string, req UpdateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateLines")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	restored := make(map[string]int, len(order.Lines))
	for _, line := range order.Lines {
		restored[line.ProductID] += line.Quantity
	}

	lines := make([]models.OrderProduct, 0, len(req.Products))
	seen := make(map[string]bool, len(req.Products))
	total := decimal.Zero

	for _, item := range req.Products {
		if seen[item.ProductID] {
			return nil, errs.Invalid("Duplicate product %s in order", item.ProductID)
		}
		seen[item.ProductID] = true

		product, err := s.store.GetProductByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		available := product.Stock + restored[product.ID]
		if item.Quantity > available {
			util.StockInsufficientTotal.Inc()
			return nil, errs.Invalid("Insufficient stock for product %s: requested %d, available %d",
				product.ID, item.Quantity, available)
		}

		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		lines = append(lines, models.OrderProduct{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Quantity:  item.Quantity,
		})
	}

	if err := s.store.ReplaceOrderLines(ctx, orderID, order.Lines, lines, total); err != nil {
		return nil, err
	}

	s.invalidateProducts(ctx, append(order.Lines, lines...))
	s.logger.Info("Order lines replaced",
		zap.String("order_id", orderID),
		zap.Int("line_count", len(lines)),
		zap.String("total_price", total.String()))

	return s.store.GetOrderByID(ctx, orderID)
}

// Delete removes the order and its lines, restoring the stock each line held.
func (s *OrderService) Delete(ctx context.Context, orderID string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.Delete")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteOrder(ctx, order.ID, order.Lines); err != nil {
		return err
	}

	s.invalidateProducts(ctx, order.Lines)
	util.OrdersDeletedTotal.Inc()
	s.logger.Info("Order deleted", zap.String("order_id", orderID))
	return nil
}
