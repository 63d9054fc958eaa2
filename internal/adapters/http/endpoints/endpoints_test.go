package endpoints

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTemplates(t *testing.T) {
	Convey("Id templates expand under their collection", t, func() {
		So(Player(7), ShouldEqual, "/admin/players/7/")
		So(PlayerPhoto(7), ShouldEqual, "/admin/players/7/upload-photo/")
		So(PlayerPDF(7), ShouldEqual, "/admin/players/7/download-pdf/")
		So(Event(3), ShouldEqual, "/admin/events/3/")
		So(Post(4), ShouldEqual, "/admin/posts/4/")
		So(PostImage(4), ShouldEqual, "/admin/posts/4/upload-image/")
		So(Product(5), ShouldEqual, "/admin/products/5/")
		So(ProductImage(5), ShouldEqual, "/admin/products/5/upload-image/")
		So(Order(9), ShouldEqual, "/admin/orders/9/")
	})

	Convey("Join keeps the trailing slash", t, func() {
		So(Join("http://localhost:8000/api", PlayerPDF(1)), ShouldEqual, "http://localhost:8000/api/admin/players/1/download-pdf/")
	})
}
