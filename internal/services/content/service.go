// Package content calls the news post endpoints.
package content

import (
	"context"
	"net/http"

	"github.com/okian/befa-admin/internal/adapters/http/endpoints"
	"github.com/okian/befa-admin/internal/adapters/http/transport"
	"github.com/okian/befa-admin/internal/domain/model"
	"github.com/okian/befa-admin/internal/services"
)

// Service coordinates post operations.
type Service struct {
	t services.Transport
}

// NewService constructs a Service.
func NewService(t services.Transport) *Service {
	return &Service{t: t}
}

// List returns every post.
func (s *Service) List(ctx context.Context) ([]model.Post, error) {
	return services.List[model.Post](ctx, s.t, endpoints.Posts)
}

// Get returns one post.
func (s *Service) Get(ctx context.Context, id int64) (model.Post, error) {
	var p model.Post
	err := s.t.Do(ctx, http.MethodGet, endpoints.Post(id), nil, &p)
	return p, err
}

// Create publishes or drafts a post.
func (s *Service) Create(ctx context.Context, in model.PostInput) (model.Post, error) {
	var out model.Post
	err := s.t.Do(ctx, http.MethodPost, endpoints.Posts, in, &out)
	return out, err
}

// Update patches a post.
func (s *Service) Update(ctx context.Context, id int64, in model.PostInput) (model.Post, error) {
	var out model.Post
	err := s.t.Do(ctx, http.MethodPatch, endpoints.Post(id), in, &out)
	return out, err
}

// Delete removes a post.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.t.Do(ctx, http.MethodDelete, endpoints.Post(id), nil, nil)
}

// UploadImage attaches a cover image.
func (s *Service) UploadImage(ctx context.Context, id int64, f transport.File) (model.Asset, error) {
	if err := services.RequireImage(f); err != nil {
		return model.Asset{}, err
	}
	var a model.Asset
	err := s.t.Upload(ctx, endpoints.PostImage(id), f, &a)
	return a, err
}
