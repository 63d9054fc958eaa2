package hooks

import (
	"context"

	"github.com/okian/befa-admin/internal/app/state"
	"github.com/okian/befa-admin/internal/domain/model"
)

// DashboardStats loads the headline counters.
func (h *Hooks) DashboardStats(ctx context.Context, opts ...state.Option) *state.Query[model.DashboardStats] {
	return state.NewQuery(ctx, h.svc.Dashboard.Stats, model.DashboardStats{}, h.with("dashboard_stats", opts)...)
}

// RecentPlayers loads the latest registrations.
func (h *Hooks) RecentPlayers(ctx context.Context, opts ...state.Option) *state.Query[[]model.Player] {
	return state.NewQuery(ctx, h.svc.Dashboard.RecentPlayers, []model.Player{}, h.with("recent_players", opts)...)
}

// PositionBreakdown loads player counts per position.
func (h *Hooks) PositionBreakdown(ctx context.Context, opts ...state.Option) *state.Query[[]model.PositionCount] {
	return state.NewQuery(ctx, h.svc.Dashboard.PositionBreakdown, []model.PositionCount{}, h.with("position_breakdown", opts)...)
}
