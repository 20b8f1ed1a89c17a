package models

import "time"

// Event types
const (
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderStatusChangedEvent is published after an order's status is persisted.
// The notification relay consumes it and emails the order's client.
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID     string `json:"order_id"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
	ClientEmail string `json:"client_email"`
	ClientName  string `json:"client_name"`
}
