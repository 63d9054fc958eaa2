// Package store calls the product and order endpoints.
package store

import (
	"context"
	"net/http"

	"github.com/okian/befa-admin/internal/adapters/http/endpoints"
	"github.com/okian/befa-admin/internal/adapters/http/transport"
	"github.com/okian/befa-admin/internal/domain/model"
	"github.com/okian/befa-admin/internal/services"
)

// Service coordinates store operations.
type Service struct {
	t services.Transport
}

// NewService constructs a Service.
func NewService(t services.Transport) *Service {
	return &Service{t: t}
}

// ListProducts returns the catalogue.
func (s *Service) ListProducts(ctx context.Context) ([]model.Product, error) {
	return services.List[model.Product](ctx, s.t, endpoints.Products)
}

// GetProduct returns one product.
func (s *Service) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := s.t.Do(ctx, http.MethodGet, endpoints.Product(id), nil, &p)
	return p, err
}

// CreateProduct adds a product.
func (s *Service) CreateProduct(ctx context.Context, in model.ProductInput) (model.Product, error) {
	var out model.Product
	err := s.t.Do(ctx, http.MethodPost, endpoints.Products, in, &out)
	return out, err
}

// UpdateProduct patches a product.
func (s *Service) UpdateProduct(ctx context.Context, id int64, in model.ProductInput) (model.Product, error) {
	var out model.Product
	err := s.t.Do(ctx, http.MethodPatch, endpoints.Product(id), in, &out)
	return out, err
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.t.Do(ctx, http.MethodDelete, endpoints.Product(id), nil, nil)
}

// UploadProductImage attaches a product photo.
func (s *Service) UploadProductImage(ctx context.Context, id int64, f transport.File) (model.Asset, error) {
	if err := services.RequireImage(f); err != nil {
		return model.Asset{}, err
	}
	var a model.Asset
	err := s.t.Upload(ctx, endpoints.ProductImage(id), f, &a)
	return a, err
}

// ListOrders returns every order.
func (s *Service) ListOrders(ctx context.Context) ([]model.Order, error) {
	return services.List[model.Order](ctx, s.t, endpoints.Orders)
}

// GetOrder returns one order.
func (s *Service) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	var o model.Order
	err := s.t.Do(ctx, http.MethodGet, endpoints.Order(id), nil, &o)
	return o, err
}

// UpdateOrderStatus patches the only writable order field.
func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (model.Order, error) {
	var out model.Order
	err := s.t.Do(ctx, http.MethodPatch, endpoints.Order(id), model.OrderStatusPatch{Status: status}, &out)
	return out, err
}
