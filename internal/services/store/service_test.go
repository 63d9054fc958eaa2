package store_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/befa-admin/internal/adapters/http/transport"
	"github.com/okian/befa-admin/internal/domain/model"
	"github.com/okian/befa-admin/internal/services/store"
	"github.com/okian/befa-admin/internal/session"
	"github.com/okian/befa-admin/internal/testutil"
)

func TestStoreService(t *testing.T) {
	Convey("Given a signed-in store client", t, func() {
		b := testutil.NewBackend()
		defer b.Close()
		st := session.NewMemoryStore()
		_ = st.Set(context.Background(), session.Session{AccessToken: testutil.AccessToken})
		svc := store.NewService(transport.New(b.URL(), st))
		ctx := context.Background()

		Convey("When a product is created and edited", func() {
			p, err := svc.CreateProduct(ctx, model.ProductInput{Name: "Home Jersey", Price: 2500, Size: "M", InStock: true})
			So(err, ShouldBeNil)
			in := p.Input()
			in.InStock = false
			p2, err := svc.UpdateProduct(ctx, p.ID, in)

			Convey("Then the backend reflects the change", func() {
				So(err, ShouldBeNil)
				So(p2.InStock, ShouldBeFalse)
				list, err := svc.ListProducts(ctx)
				So(err, ShouldBeNil)
				So(len(list), ShouldEqual, 1)
				So(float64(list[0].Price), ShouldEqual, 2500)
			})

			Convey("And an image can be attached", func() {
				a, err := svc.UploadProductImage(ctx, p.ID, transport.NewFile("jersey.jpg", []byte("jpg")))
				So(err, ShouldBeNil)
				So(a.ImageURL, ShouldNotBeEmpty)
			})

			Convey("And it can be deleted", func() {
				So(svc.DeleteProduct(ctx, p.ID), ShouldBeNil)
				_, err := svc.GetProduct(ctx, p.ID)
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When an order status changes", func() {
			id := b.Seed("orders", map[string]any{"user": "fan@befa.ng", "status": "pending", "products": []any{}})
			o, err := svc.UpdateOrderStatus(ctx, id, model.OrderShipped)

			Convey("Then only the status is sent", func() {
				So(err, ShouldBeNil)
				So(o.Status, ShouldEqual, model.OrderShipped)
				So(string(b.LastRequest().Body), ShouldEqual, `{"status":"shipped"}`)
				got, err := svc.GetOrder(ctx, id)
				So(err, ShouldBeNil)
				So(got.Customer(), ShouldEqual, "fan@befa.ng")
				orders, err := svc.ListOrders(ctx)
				So(err, ShouldBeNil)
				So(len(orders), ShouldEqual, 1)
			})
		})
	})
}
