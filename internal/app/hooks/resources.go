package hooks

import (
	"context"

	"github.com/okian/befa-admin/internal/adapters/http/transport"
	"github.com/okian/befa-admin/internal/app/state"
	"github.com/okian/befa-admin/internal/domain/model"
)

// Events lists the schedule.
func (h *Hooks) Events(ctx context.Context, opts ...state.Option) *state.Query[[]model.ScheduleEvent] {
	return state.NewQuery(ctx, h.svc.Schedule.List, []model.ScheduleEvent{}, h.with("events", opts)...)
}

// CreateEvent adds a schedule entry.
func (h *Hooks) CreateEvent(opts ...state.Option) *state.Mutation[model.ScheduleEvent, model.ScheduleEvent] {
	return mutation(h, "create_event", h.svc.Schedule.Create, opts)
}

// UpdateEvent edits a schedule entry.
func (h *Hooks) UpdateEvent(opts ...state.Option) *state.Mutation[Edit[model.ScheduleEvent], model.ScheduleEvent] {
	return mutation(h, "update_event", func(ctx context.Context, e Edit[model.ScheduleEvent]) (model.ScheduleEvent, error) {
		return h.svc.Schedule.Update(ctx, e.ID, e.Value)
	}, opts)
}

// DeleteEvent removes a schedule entry.
func (h *Hooks) DeleteEvent(opts ...state.Option) *state.Mutation[int64, None] {
	return mutation(h, "delete_event", deleter(h.svc.Schedule.Delete), opts)
}

// Posts lists news posts.
func (h *Hooks) Posts(ctx context.Context, opts ...state.Option) *state.Query[[]model.Post] {
	return state.NewQuery(ctx, h.svc.Content.List, []model.Post{}, h.with("posts", opts)...)
}

// CreatePost adds a post.
func (h *Hooks) CreatePost(opts ...state.Option) *state.Mutation[model.PostInput, model.Post] {
	return mutation(h, "create_post", h.svc.Content.Create, opts)
}

// UpdatePost edits a post.
func (h *Hooks) UpdatePost(opts ...state.Option) *state.Mutation[Edit[model.PostInput], model.Post] {
	return mutation(h, "update_post", func(ctx context.Context, e Edit[model.PostInput]) (model.Post, error) {
		return h.svc.Content.Update(ctx, e.ID, e.Value)
	}, opts)
}

// DeletePost removes a post.
func (h *Hooks) DeletePost(opts ...state.Option) *state.Mutation[int64, None] {
	return mutation(h, "delete_post", deleter(h.svc.Content.Delete), opts)
}

// UploadPostImage attaches a cover image.
func (h *Hooks) UploadPostImage(opts ...state.Option) *state.Mutation[Attachment, model.Asset] {
	return mutation(h, "upload_post_image", func(ctx context.Context, a Attachment) (model.Asset, error) {
		return h.svc.Content.UploadImage(ctx, a.ID, a.File)
	}, opts)
}

// Products lists the catalogue.
func (h *Hooks) Products(ctx context.Context, opts ...state.Option) *state.Query[[]model.Product] {
	return state.NewQuery(ctx, h.svc.Store.ListProducts, []model.Product{}, h.with("products", opts)...)
}

// CreateProduct adds a product.
func (h *Hooks) CreateProduct(opts ...state.Option) *state.Mutation[model.ProductInput, model.Product] {
	return mutation(h, "create_product", h.svc.Store.CreateProduct, opts)
}

// UpdateProduct edits a product.
func (h *Hooks) UpdateProduct(opts ...state.Option) *state.Mutation[Edit[model.ProductInput], model.Product] {
	return mutation(h, "update_product", func(ctx context.Context, e Edit[model.ProductInput]) (model.Product, error) {
		return h.svc.Store.UpdateProduct(ctx, e.ID, e.Value)
	}, opts)
}

// DeleteProduct removes a product.
func (h *Hooks) DeleteProduct(opts ...state.Option) *state.Mutation[int64, None] {
	return mutation(h, "delete_product", deleter(h.svc.Store.DeleteProduct), opts)
}

// UploadProductImage attaches a product photo.
func (h *Hooks) UploadProductImage(opts ...state.Option) *state.Mutation[Attachment, model.Asset] {
	return mutation(h, "upload_product_image", func(ctx context.Context, a Attachment) (model.Asset, error) {
		return h.svc.Store.UploadProductImage(ctx, a.ID, a.File)
	}, opts)
}

// Orders lists customer orders.
func (h *Hooks) Orders(ctx context.Context, opts ...state.Option) *state.Query[[]model.Order] {
	return state.NewQuery(ctx, h.svc.Store.ListOrders, []model.Order{}, h.with("orders", opts)...)
}

// UpdateOrderStatus moves an order through fulfilment.
func (h *Hooks) UpdateOrderStatus(opts ...state.Option) *state.Mutation[Edit[model.OrderStatus], model.Order] {
	return mutation(h, "update_order_status", func(ctx context.Context, e Edit[model.OrderStatus]) (model.Order, error) {
		return h.svc.Store.UpdateOrderStatus(ctx, e.ID, e.Value)
	}, opts)
}

// UploadImage uploads a standalone image.
func (h *Hooks) UploadImage(opts ...state.Option) *state.Mutation[transport.File, model.Asset] {
	return mutation(h, "upload_image", h.svc.Upload.Image, opts)
}
