// Package schedule calls the event endpoints.
package schedule

import (
	"context"
	"net/http"

	"github.com/okian/befa-admin/internal/adapters/http/endpoints"
	"github.com/okian/befa-admin/internal/domain/model"
	"github.com/okian/befa-admin/internal/services"
)

// Service coordinates schedule operations.
type Service struct {
	t services.Transport
}

// NewService constructs a Service.
func NewService(t services.Transport) *Service {
	return &Service{t: t}
}

// List returns every event.
func (s *Service) List(ctx context.Context) ([]model.ScheduleEvent, error) {
	return services.List[model.ScheduleEvent](ctx, s.t, endpoints.Events)
}

// Get returns one event.
func (s *Service) Get(ctx context.Context, id int64) (model.ScheduleEvent, error) {
	var e model.ScheduleEvent
	err := s.t.Do(ctx, http.MethodGet, endpoints.Event(id), nil, &e)
	return e, err
}

// Create adds an event.
func (s *Service) Create(ctx context.Context, e model.ScheduleEvent) (model.ScheduleEvent, error) {
	var out model.ScheduleEvent
	err := s.t.Do(ctx, http.MethodPost, endpoints.Events, e, &out)
	return out, err
}

// Update patches an event.
func (s *Service) Update(ctx context.Context, id int64, e model.ScheduleEvent) (model.ScheduleEvent, error) {
	var out model.ScheduleEvent
	err := s.t.Do(ctx, http.MethodPatch, endpoints.Event(id), e, &out)
	return out, err
}

// Delete removes an event.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.t.Do(ctx, http.MethodDelete, endpoints.Event(id), nil, nil)
}
