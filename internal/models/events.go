package models

import "time"

// Event types
const (
	EventTypeOrderPlaced        = "ORDER_PLACED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published when checkout succeeds
type OrderPlacedEvent struct {
	BaseEvent
	OrderID      string          `json:"order_id"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	CommunityID  string          `json:"community_id"`
	TimeSlot     TimeSlot        `json:"time_slot"`
	Total        float64         `json:"total"`
	Items        []OrderItemData `json:"items"`
}

// OrderStatusChangedEvent published when an admin moves an order along
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID    string      `json:"order_id"`
	CustomerID string      `json:"customer_id"`
	From       OrderStatus `json:"from"`
	To         OrderStatus `json:"to"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
