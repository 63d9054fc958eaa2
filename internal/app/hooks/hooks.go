// Package hooks binds resource services to generic query and mutation state.
// Nothing here adds behavior: each constructor only fixes parameters.
package hooks

import (
	"context"

	"github.com/okian/befa-admin/internal/adapters/http/transport"
	"github.com/okian/befa-admin/internal/app/state"
	"github.com/okian/befa-admin/internal/services/content"
	"github.com/okian/befa-admin/internal/services/dashboard"
	"github.com/okian/befa-admin/internal/services/players"
	"github.com/okian/befa-admin/internal/services/schedule"
	"github.com/okian/befa-admin/internal/services/store"
	"github.com/okian/befa-admin/internal/services/upload"
)

// Services are the resource services hooks bind to.
type Services struct {
	Players   *players.Service
	Schedule  *schedule.Service
	Content   *content.Service
	Store     *store.Service
	Dashboard *dashboard.Service
	Upload    *upload.Service
}

// Edit addresses a write at one record.
type Edit[T any] struct {
	ID    int64
	Value T
}

// Attachment is a file bound for one record.
type Attachment struct {
	ID   int64
	File transport.File
}

// None is the result of writes that return nothing.
type None struct{}

// Hooks builds named queries and mutations sharing one set of state options.
type Hooks struct {
	svc  Services
	opts []state.Option
}

// New constructs Hooks. opts apply to every query and mutation built.
func New(svc Services, opts ...state.Option) *Hooks {
	return &Hooks{svc: svc, opts: opts}
}

func (h *Hooks) with(name string, extra []state.Option) []state.Option {
	out := make([]state.Option, 0, len(h.opts)+len(extra)+1)
	out = append(out, h.opts...)
	out = append(out, state.WithName(name))
	return append(out, extra...)
}

func mutation[A, R any](h *Hooks, name string, fn state.Action[A, R], extra []state.Option) *state.Mutation[A, R] {
	return state.NewMutation(fn, h.with(name, extra)...)
}

func deleter(fn func(context.Context, int64) error) state.Action[int64, None] {
	return func(ctx context.Context, id int64) (None, error) {
		return None{}, fn(ctx, id)
	}
}
