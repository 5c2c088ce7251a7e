package models

import "time"

// Role of a known user
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User represents a seeded account that can log in
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the user may use admin operations
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Community represents a delivery zone acting as a shopping scope
type Community struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Image       string  `json:"image"`
	DeliveryFee float64 `json:"deliveryFee"`
}

// Product represents a product in the shared catalog
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	InStock     bool    `json:"inStock"`
}

// CartItem is a single product line stored in the cart
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart is the single cart aggregate. All items belong to CommunityID.
type Cart struct {
	CommunityID *string    `json:"communityId"`
	Items       []CartItem `json:"items"`
}

// EmptyCart returns a cart with no community and no items
func EmptyCart() Cart {
	return Cart{CommunityID: nil, Items: []CartItem{}}
}

// CartLine is a cart item joined with its live product
type CartLine struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product"`
	Total     float64 `json:"total"`
}

// CartDetails holds the resolved cart and its derived totals
type CartDetails struct {
	Community   *Community `json:"community"`
	Items       []CartLine `json:"items"`
	Subtotal    float64    `json:"subtotal"`
	DeliveryFee float64    `json:"deliveryFee"`
	Total       float64    `json:"total"`
}

// TimeSlot is a coarse delivery window chosen at checkout
type TimeSlot string

const (
	TimeSlotMorning TimeSlot = "morning"
	TimeSlotEvening TimeSlot = "evening"
)

// Valid reports whether the slot is a known delivery window
func (t TimeSlot) Valid() bool {
	return t == TimeSlotMorning || t == TimeSlotEvening
}

// OrderStatus represents the delivery lifecycle of an order
type OrderStatus string

// Order statuses
const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusOutForDelivery OrderStatus = "out-for-delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
)

// OrderItem is a product line snapshotted at order time
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order represents a placed customer order
type Order struct {
	ID              string      `json:"id"`
	CustomerID      string      `json:"customerId"`
	CustomerName    string      `json:"customerName"`
	CustomerPhone   string      `json:"customerPhone"`
	CustomerAddress string      `json:"customerAddress"`
	CommunityID     string      `json:"communityId"`
	Items           []OrderItem `json:"items"`
	TimeSlot        TimeSlot    `json:"timeSlot"`
	DeliveryFee     float64     `json:"deliveryFee"`
	Subtotal        float64     `json:"subtotal"`
	Total           float64     `json:"total"`
	Status          OrderStatus `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
}
