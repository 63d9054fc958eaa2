package hooks_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/befa-admin/internal/adapters/http/transport"
	"github.com/okian/befa-admin/internal/app/hooks"
	"github.com/okian/befa-admin/internal/app/state"
	"github.com/okian/befa-admin/internal/domain/model"
	"github.com/okian/befa-admin/internal/services/content"
	"github.com/okian/befa-admin/internal/services/dashboard"
	"github.com/okian/befa-admin/internal/services/players"
	"github.com/okian/befa-admin/internal/services/schedule"
	"github.com/okian/befa-admin/internal/services/store"
	"github.com/okian/befa-admin/internal/services/upload"
	"github.com/okian/befa-admin/internal/session"
	"github.com/okian/befa-admin/internal/testutil"
)

func newHooks(b *testutil.Backend) *hooks.Hooks {
	st := session.NewMemoryStore()
	_ = st.Set(context.Background(), session.Session{AccessToken: testutil.AccessToken})
	c := transport.New(b.URL(), st)
	return hooks.New(hooks.Services{
		Players:   players.NewService(c),
		Schedule:  schedule.NewService(c),
		Content:   content.NewService(c),
		Store:     store.NewService(c),
		Dashboard: dashboard.NewService(c),
		Upload:    upload.NewService(c),
	}, state.WithStalePolicy(state.DiscardStale))
}

func TestPlayersHook(t *testing.T) {
	ctx := context.Background()

	Convey("Given a paginated players endpoint", t, func() {
		b := testutil.NewBackend()
		defer b.Close()
		b.Paginate(true)
		b.Seed("players", map[string]any{"surname": "Adeyemi", "soccer_position": "Striker"})
		b.Seed("players", map[string]any{"surname": "Bello", "soccer_position": "Defender"})
		h := newHooks(b)

		Convey("When the players hook mounts", func() {
			q := h.Players(ctx, model.PlayerFilters{})
			s := q.Snapshot()

			Convey("Then data is the bare list", func() {
				So(s.Loading, ShouldBeFalse)
				So(s.Err, ShouldEqual, "")
				So(len(s.Data), ShouldEqual, 2)
				So(s.Data[0].Surname, ShouldEqual, "Adeyemi")
			})

			Convey("And changing the filters re-fetches", func() {
				s, changed := q.SetKey(ctx, model.PlayerFilters{Search: "bel"})
				So(changed, ShouldBeTrue)
				So(len(s.Data), ShouldEqual, 1)
				So(b.LastRequest().Query, ShouldEqual, "search=bel")
			})
		})

		Convey("When one player is loaded and then deleted", func() {
			p := h.Player(ctx, 2)
			So(p.Snapshot().Data.Surname, ShouldEqual, "Bello")

			_, err := h.DeletePlayer().Execute(ctx, 2)
			So(err, ShouldBeNil)
			s := p.Execute(ctx)

			Convey("Then the reload fails with a status and keeps the old data", func() {
				So(s.Status, ShouldEqual, 404)
				So(s.Err, ShouldEqual, "Not found.")
				So(s.Data.Surname, ShouldEqual, "Bello")
			})
		})
	})

	Convey("Given the backend goes away", t, func() {
		b := testutil.NewBackend()
		b.Seed("players", map[string]any{"surname": "Adeyemi"})
		h := newHooks(b)
		q := h.Players(ctx, model.PlayerFilters{})
		So(len(q.Snapshot().Data), ShouldEqual, 1)
		b.Close()

		s := q.Execute(ctx)

		Convey("Then the hook goes offline with an empty list and no message", func() {
			So(s.Offline, ShouldBeTrue)
			So(s.Err, ShouldEqual, "")
			So(s.Data, ShouldBeEmpty)
		})
	})
}

func TestMutationHooks(t *testing.T) {
	ctx := context.Background()

	Convey("Given a backend", t, func() {
		b := testutil.NewBackend()
		defer b.Close()
		h := newHooks(b)

		Convey("When registration is rejected by the backend", func() {
			m := h.CreatePlayer()
			_, err := m.Execute(ctx, model.NewPlayer())

			Convey("Then the error is returned and recorded", func() {
				So(err, ShouldNotBeNil)
				So(m.Snapshot().Err, ShouldEqual, "Request failed with status code 400")
				So(m.Snapshot().Loading, ShouldBeFalse)
			})
		})

		Convey("When a player is deleted twice", func() {
			id := b.Seed("players", map[string]any{"surname": "Adeyemi"})
			m := h.DeletePlayer()
			_, first := m.Execute(ctx, id)
			_, second := m.Execute(ctx, id)

			Convey("Then the second delete is recorded as a normal failure", func() {
				So(first, ShouldBeNil)
				So(transport.StatusOf(second), ShouldEqual, 404)
				s := m.Snapshot()
				So(s.Loading, ShouldBeFalse)
				So(s.Status, ShouldEqual, 404)
				So(s.Err, ShouldEqual, "Not found.")
			})
		})

		Convey("When a status and an order are updated", func() {
			pid := b.Seed("players", map[string]any{"surname": "A", "admission_status": "pending"})
			oid := b.Seed("orders", map[string]any{"status": "placed"})

			p, err := h.UpdatePlayerStatus().Execute(ctx, hooks.Edit[model.AdmissionStatus]{ID: pid, Value: model.AdmissionAdmitted})
			So(err, ShouldBeNil)
			o, err := h.UpdateOrderStatus().Execute(ctx, hooks.Edit[model.OrderStatus]{ID: oid, Value: model.OrderDelivered})
			So(err, ShouldBeNil)

			Convey("Then both writes land", func() {
				So(p.AdmissionStatus, ShouldEqual, model.AdmissionAdmitted)
				So(o.Status, ShouldEqual, model.OrderDelivered)
			})
		})

		Convey("When the dashboard and resource lists mount", func() {
			So(h.DashboardStats(ctx).Snapshot().Err, ShouldEqual, "")
			So(h.RecentPlayers(ctx).Snapshot().Data, ShouldBeEmpty)
			So(len(h.PositionBreakdown(ctx).Snapshot().Data), ShouldEqual, 4)
			So(h.Events(ctx).Snapshot().Failed(), ShouldBeFalse)
			So(h.Posts(ctx).Snapshot().Failed(), ShouldBeFalse)
			So(h.Products(ctx).Snapshot().Failed(), ShouldBeFalse)
			So(h.Orders(ctx).Snapshot().Failed(), ShouldBeFalse)
		})

		Convey("When a deferred query is built", func() {
			q := h.Events(ctx, state.WithImmediate(false))

			Convey("Then nothing is fetched until Execute", func() {
				So(b.Requests(), ShouldBeEmpty)
				q.Execute(ctx)
				So(len(b.Requests()), ShouldEqual, 1)
			})
		})
	})
}
