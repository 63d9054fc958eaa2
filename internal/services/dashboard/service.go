// Package dashboard calls the overview endpoints.
package dashboard

import (
	"context"
	"net/http"

	"github.com/okian/befa-admin/internal/adapters/http/endpoints"
	"github.com/okian/befa-admin/internal/domain/model"
	"github.com/okian/befa-admin/internal/services"
)

// Service reads dashboard aggregates.
type Service struct {
	t services.Transport
}

// NewService constructs a Service.
func NewService(t services.Transport) *Service {
	return &Service{t: t}
}

// Stats returns the headline counters.
func (s *Service) Stats(ctx context.Context) (model.DashboardStats, error) {
	var st model.DashboardStats
	err := s.t.Do(ctx, http.MethodGet, endpoints.DashboardStats, nil, &st)
	return st, err
}

// RecentPlayers returns the latest registrations.
func (s *Service) RecentPlayers(ctx context.Context) ([]model.Player, error) {
	return services.List[model.Player](ctx, s.t, endpoints.DashboardRecentPlayers)
}

// PositionBreakdown returns player counts per position.
func (s *Service) PositionBreakdown(ctx context.Context) ([]model.PositionCount, error) {
	return services.List[model.PositionCount](ctx, s.t, endpoints.DashboardPositionBreakdown)
}
