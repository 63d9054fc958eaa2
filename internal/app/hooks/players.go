package hooks

import (
	"context"

	"github.com/okian/befa-admin/internal/adapters/http/transport"
	"github.com/okian/befa-admin/internal/app/state"
	"github.com/okian/befa-admin/internal/domain/model"
)

// Players lists players, re-fetching whenever the filters change by value.
func (h *Hooks) Players(ctx context.Context, f model.PlayerFilters, opts ...state.Option) *state.Keyed[model.PlayerFilters, []model.Player] {
	return state.NewKeyed(ctx, h.svc.Players.List, f, []model.Player{}, h.with("players", opts)...)
}

// Player loads one player, re-fetching when the id changes.
func (h *Hooks) Player(ctx context.Context, id int64, opts ...state.Option) *state.Keyed[int64, model.Player] {
	return state.NewKeyed(ctx, h.svc.Players.Get, id, model.Player{}, h.with("player", opts)...)
}

// CreatePlayer registers a player.
func (h *Hooks) CreatePlayer(opts ...state.Option) *state.Mutation[model.Player, model.Player] {
	return mutation(h, "create_player", h.svc.Players.Create, opts)
}

// UpdatePlayer saves the edit form.
func (h *Hooks) UpdatePlayer(opts ...state.Option) *state.Mutation[Edit[model.Player], model.Player] {
	return mutation(h, "update_player", func(ctx context.Context, e Edit[model.Player]) (model.Player, error) {
		return h.svc.Players.Update(ctx, e.ID, e.Value)
	}, opts)
}

// UpdatePlayerStatus changes only the admission status.
func (h *Hooks) UpdatePlayerStatus(opts ...state.Option) *state.Mutation[Edit[model.AdmissionStatus], model.Player] {
	return mutation(h, "update_player_status", func(ctx context.Context, e Edit[model.AdmissionStatus]) (model.Player, error) {
		return h.svc.Players.UpdateStatus(ctx, e.ID, e.Value)
	}, opts)
}

// DeletePlayer removes a player.
func (h *Hooks) DeletePlayer(opts ...state.Option) *state.Mutation[int64, None] {
	return mutation(h, "delete_player", deleter(h.svc.Players.Delete), opts)
}

// UploadPlayerPhoto stores a player's photo.
func (h *Hooks) UploadPlayerPhoto(opts ...state.Option) *state.Mutation[Attachment, model.Asset] {
	return mutation(h, "upload_player_photo", func(ctx context.Context, a Attachment) (model.Asset, error) {
		return h.svc.Players.UploadPhoto(ctx, a.ID, a.File)
	}, opts)
}

// ExtractFromPDF runs OCR on a registration form.
func (h *Hooks) ExtractFromPDF(opts ...state.Option) *state.Mutation[transport.File, model.Extraction] {
	return mutation(h, "extract_from_pdf", h.svc.Players.ExtractFromPDF, opts)
}
