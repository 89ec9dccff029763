package domain

import (
	"fmt"     // Error formatting
	"strings" // Case normalisation
)

// PizzaSize is the size of the pizzas in an order
type PizzaSize string

// Supported pizza sizes
const (
	PizzaSizeSmall  PizzaSize = "SMALL"
	PizzaSizeMedium PizzaSize = "MEDIUM"
	PizzaSizeLarge  PizzaSize = "LARGE"
)

// OrderStatus is the delivery state of an order
type OrderStatus string

// Supported order statuses, any of them can be set by staff at any time
const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusInTransit OrderStatus = "IN_TRANSIT"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// Order Model
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`                 // Primary key
	Quantity    int         `gorm:"not null" json:"quantity"`             // Number of pizzas
	PizzaSize   PizzaSize   `gorm:"size:20;not null" json:"pizza_size"`   // Pizza size
	OrderStatus OrderStatus `gorm:"size:20;not null" json:"order_status"` // Order status
	UserID      uint        `gorm:"index;not null" json:"user_id"`        // Foreign key to the owning User
}

// ParsePizzaSize normalises s, an empty value selects SMALL
func ParsePizzaSize(s string) (PizzaSize, error) {
	switch size := PizzaSize(strings.ToUpper(strings.TrimSpace(s))); size {
	case "":
		return PizzaSizeSmall, nil
	case PizzaSizeSmall, PizzaSizeMedium, PizzaSizeLarge:
		return size, nil
	default:
		return "", fmt.Errorf("invalid pizza size %q", s)
	}
}

// ParseOrderStatus normalises s, an empty value selects PENDING
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch status := OrderStatus(strings.ToUpper(strings.TrimSpace(s))); status {
	case "":
		return OrderStatusPending, nil
	case OrderStatusPending, OrderStatusInTransit, OrderStatusDelivered:
		return status, nil
	default:
		return "", fmt.Errorf("invalid order status %q", s)
	}
}
