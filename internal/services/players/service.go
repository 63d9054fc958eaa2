// Package players calls the player management endpoints.
package players

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/befa-admin/internal/adapters/http/endpoints"
	"github.com/okian/befa-admin/internal/adapters/http/transport"
	"github.com/okian/befa-admin/internal/domain/model"
	"github.com/okian/befa-admin/internal/services"
)

// DefaultExtractTimeout bounds the OCR call, which is much slower than CRUD.
const DefaultExtractTimeout = 60 * time.Second

// Service coordinates player operations.
type Service struct {
	t              services.Transport
	extractTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithExtractTimeout overrides the PDF extraction timeout.
func WithExtractTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.extractTimeout = d
		}
	}
}

// NewService constructs a Service.
func NewService(t services.Transport, opts ...Option) *Service {
	s := &Service{t: t, extractTimeout: DefaultExtractTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns players matching f.
func (s *Service) List(ctx context.Context, f model.PlayerFilters) ([]model.Player, error) {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Position != "" {
		q.Set("position", f.Position)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	return services.List[model.Player](ctx, s.t, endpoints.Players, transport.Query(q))
}

// Get returns one player.
func (s *Service) Get(ctx context.Context, id int64) (model.Player, error) {
	var p model.Player
	err := s.t.Do(ctx, http.MethodGet, endpoints.Player(id), nil, &p)
	return p, err
}

// Create registers a player.
func (s *Service) Create(ctx context.Context, p model.Player) (model.Player, error) {
	var out model.Player
	err := s.t.Do(ctx, http.MethodPost, endpoints.Players, p, &out)
	return out, err
}

// Update patches a player with the full form.
func (s *Service) Update(ctx context.Context, id int64, p model.Player) (model.Player, error) {
	var out model.Player
	err := s.t.Do(ctx, http.MethodPatch, endpoints.Player(id), p, &out)
	return out, err
}

// UpdateStatus patches only the admission status.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status model.AdmissionStatus) (model.Player, error) {
	var out model.Player
	err := s.t.Do(ctx, http.MethodPatch, endpoints.Player(id), model.StatusPatch{AdmissionStatus: status}, &out)
	return out, err
}

// Delete removes a player.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.t.Do(ctx, http.MethodDelete, endpoints.Player(id), nil, nil)
}

// UploadPhoto stores a player photo. The reply is {image_url}.
func (s *Service) UploadPhoto(ctx context.Context, id int64, f transport.File) (model.Asset, error) {
	if err := services.RequireImage(f); err != nil {
		return model.Asset{}, err
	}
	var a model.Asset
	err := s.t.Upload(ctx, endpoints.PlayerPhoto(id), f, &a)
	return a, err
}

// DownloadPDFURL is the absolute registration PDF link.
func (s *Service) DownloadPDFURL(id int64) string {
	return s.t.URL(endpoints.PlayerPDF(id))
}

// DownloadPDF writes the registration PDF to w.
func (s *Service) DownloadPDF(ctx context.Context, id int64, w io.Writer) error {
	return s.t.Stream(ctx, endpoints.PlayerPDF(id), w)
}

// ExtractFromPDF runs OCR on a filled registration form.
func (s *Service) ExtractFromPDF(ctx context.Context, f transport.File) (model.Extraction, error) {
	if err := services.RequirePDF(f); err != nil {
		return nil, err
	}
	ex := model.Extraction{}
	if err := s.t.Upload(ctx, endpoints.PlayersExtract, f, &ex, transport.Timeout(s.extractTimeout)); err != nil {
		return nil, err
	}
	return ex, nil
}
