package domain

import "time"

// Order statuses. New orders always start PLACED; the later transitions are
// driven by fulfillment processes outside this repository.
const (
	StatusPlaced    = "PLACED"
	StatusPaid      = "PAID"
	StatusShipped   = "SHIPPED"
	StatusDelivered = "DELIVERED"
)

type Order struct {
	ID              int64       `json:"id"`
	UserEmail       string      `json:"userEmail"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"totalAmount"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shippingAddress,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// OrderItem carries a denormalized product snapshot taken at order time.
// ProductName and Price are not kept in sync with the inventory service.
type OrderItem struct {
	ID          int64   `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}
