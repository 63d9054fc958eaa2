package model

import (
	"fmt"
	"strings"
)

// Product is a store item.
type Product struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Price       Number `json:"price"`
	Size        string `json:"size"`
	Description string `json:"description"`
	InStock     bool   `json:"in_stock"`
	ImageURL    string `json:"image_url,omitempty"`
}

// ProductInput is the client-writable subset of a product.
type ProductInput struct {
	Name        string `json:"name"`
	Price       Number `json:"price"`
	Size        string `json:"size"`
	Description string `json:"description"`
	InStock     bool   `json:"in_stock"`
}

// NewProductInput returns the empty form, in stock by default.
func NewProductInput() ProductInput { return ProductInput{InStock: true} }

// Input extracts the writable fields.
func (p Product) Input() ProductInput {
	return ProductInput{Name: p.Name, Price: p.Price, Size: p.Size, Description: p.Description, InStock: p.InStock}
}

// Validate checks name and price.
func (p ProductInput) Validate() error {
	if strings.TrimSpace(p.Name) == "" || p.Price == 0 {
		var fields []string
		if strings.TrimSpace(p.Name) == "" {
			fields = append(fields, "name")
		}
		if p.Price == 0 {
			fields = append(fields, "price")
		}
		return &ValidationError{Message: "Name and price are required", Fields: fields}
	}
	return nil
}

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

// Order statuses.
const (
	OrderPending   OrderStatus = "pending"
	OrderPlaced    OrderStatus = "placed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every valid status.
var OrderStatuses = []OrderStatus{OrderPending, OrderPlaced, OrderShipped, OrderDelivered, OrderCancelled}

// ParseOrderStatus validates s.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: order status %q", ErrInvalidStatus, s)
}

// Order is a customer order. Only Status is client-writable.
type Order struct {
	ID        int64       `json:"id"`
	User      any         `json:"user"`
	Products  []Product   `json:"products"`
	Status    OrderStatus `json:"status"`
	CreatedAt string      `json:"created_at,omitempty"`
	UpdatedAt string      `json:"updated_at,omitempty"`
}

// Customer renders the user reference, which may be an id, an email or an object.
func (o Order) Customer() string {
	switch u := o.User.(type) {
	case nil:
		return ""
	case string:
		return u
	case float64:
		return Number(u).String()
	case map[string]any:
		if e, ok := u["email"].(string); ok {
			return e
		}
	}
	return fmt.Sprint(o.User)
}

// Total sums the embedded product prices.
func (o Order) Total() Number {
	var t Number
	for _, p := range o.Products {
		t += p.Price
	}
	return t
}

// OrderStatusPatch is the body of an order update.
type OrderStatusPatch struct {
	Status OrderStatus `json:"status"`
}
