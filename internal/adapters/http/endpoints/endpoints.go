// Package endpoints is the table of backend paths, relative to the API base URL.
package endpoints

import (
	"fmt"
	"net/url"
)

// Auth.
const (
	Login   = "/auth/admin-login/"
	Me      = "/auth/me/"
	Refresh = "/auth/jwt/refresh/"
)

// Dashboard.
const (
	DashboardStats             = "/admin/dashboard/stats/"
	DashboardRecentPlayers     = "/admin/dashboard/recent-players/"
	DashboardPositionBreakdown = "/admin/dashboard/position-breakdown/"
)

// Collections.
const (
	Players        = "/admin/players/"
	PlayersExtract = "/admin/players/extract-from-pdf/"
	Events         = "/admin/events/"
	Posts          = "/admin/posts/"
	Products       = "/admin/products/"
	Orders         = "/admin/orders/"
	UploadImage    = "/admin/uploads/image/"
)

func item(collection string, id int64) string {
	return fmt.Sprintf("%s%d/", collection, id)
}

// Player is the detail path for one player.
func Player(id int64) string { return item(Players, id) }

// PlayerPhoto is the photo upload path for one player.
func PlayerPhoto(id int64) string { return Player(id) + "upload-photo/" }

// PlayerPDF is the registration PDF download path for one player.
func PlayerPDF(id int64) string { return Player(id) + "download-pdf/" }

// Event is the detail path for one schedule event.
func Event(id int64) string { return item(Events, id) }

// Post is the detail path for one post.
func Post(id int64) string { return item(Posts, id) }

// PostImage is the image upload path for one post.
func PostImage(id int64) string { return Post(id) + "upload-image/" }

// Product is the detail path for one product.
func Product(id int64) string { return item(Products, id) }

// ProductImage is the image upload path for one product.
func ProductImage(id int64) string { return Product(id) + "upload-image/" }

// Order is the detail path for one order.
func Order(id int64) string { return item(Orders, id) }

// Join resolves a relative endpoint against base, for links shown to the operator.
func Join(base, path string) string {
	u, err := url.JoinPath(base, path)
	if err != nil {
		return base + path
	}
	// JoinPath drops the trailing slash the backend routes require.
	if len(path) > 0 && path[len(path)-1] == '/' && (len(u) == 0 || u[len(u)-1] != '/') {
		u += "/"
	}
	return u
}
