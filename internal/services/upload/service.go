// Package upload calls the generic image upload endpoint.
package upload

import (
	"context"

	"github.com/okian/befa-admin/internal/adapters/http/endpoints"
	"github.com/okian/befa-admin/internal/adapters/http/transport"
	"github.com/okian/befa-admin/internal/domain/model"
	"github.com/okian/befa-admin/internal/services"
)

// Service uploads standalone images.
type Service struct {
	t services.Transport
}

// NewService constructs a Service.
func NewService(t services.Transport) *Service {
	return &Service{t: t}
}

// Image uploads f. The reply is {url, public_id}.
func (s *Service) Image(ctx context.Context, f transport.File) (model.Asset, error) {
	if err := services.RequireImage(f); err != nil {
		return model.Asset{}, err
	}
	var a model.Asset
	err := s.t.Upload(ctx, endpoints.UploadImage, f, &a)
	return a, err
}
