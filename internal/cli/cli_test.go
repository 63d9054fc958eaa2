package cli_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/befa-admin/internal/app"
	"github.com/okian/befa-admin/internal/cli"
	"github.com/okian/befa-admin/internal/config"
	"github.com/okian/befa-admin/internal/domain/model"
	"github.com/okian/befa-admin/internal/testutil"
)

var today = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type harness struct {
	shell  *cli.Shell
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newHarness(b *testutil.Backend, input string) harness {
	h := harness{out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	nav := cli.NewNavigator(h.errOut)
	cfg := config.New()
	cfg.APIURL = b.URL()
	cfg.SessionBackend = config.SessionMemory
	a, err := app.New(context.Background(), cfg,
		app.WithNavigator(nav),
		app.WithNotifier(cli.NewToaster(h.errOut)),
	)
	So(err, ShouldBeNil)
	h.shell = cli.New(a, nav, h.out, h.errOut,
		cli.WithClock(func() time.Time { return today }),
		cli.WithInput(strings.NewReader(input)),
	)
	return h
}

func (h harness) run(args ...string) error {
	h.out.Reset()
	return h.shell.Run(context.Background(), args)
}

func (h harness) login() {
	So(h.run("login", "-email", testutil.AdminEmail, "-password", testutil.AdminPassword), ShouldBeNil)
}

func TestRouting(t *testing.T) {
	Convey("Given a shell without a session", t, func() {
		b := testutil.NewBackend()
		defer b.Close()
		h := newHarness(b, testutil.AdminPassword+"\n")

		Convey("Protected routes redirect to login", func() {
			err := h.run("players", "list")
			So(errors.Is(err, cli.ErrSignInRequired), ShouldBeTrue)
			So(h.shell.Navigator().Location(), ShouldEqual, cli.ViewLogin)
			So(b.Requests(), ShouldBeEmpty)
		})

		Convey("Unknown commands are reported", func() {
			So(errors.Is(h.run("teams"), cli.ErrUnknownRoute), ShouldBeTrue)
		})

		Convey("Help lists every route", func() {
			So(h.run(), ShouldBeNil)
			for _, r := range h.shell.Routes() {
				So(h.out.String(), ShouldContainSubstring, r.Usage)
			}
		})

		Convey("Login with missing fields never reaches the backend", func() {
			err := h.run("login")
			So(err.Error(), ShouldEqual, "Please enter your email and password")
			So(b.Requests(), ShouldBeEmpty)
		})

		Convey("Login with wrong credentials shows the backend message", func() {
			err := h.run("login", "-email", testutil.AdminEmail, "-password", "nope")
			So(err.Error(), ShouldEqual, "Invalid credentials")
		})

		Convey("Login reads the password from input when the flag is omitted", func() {
			So(h.run("login", "-email", testutil.AdminEmail), ShouldBeNil)
			So(h.out.String(), ShouldContainSubstring, "Signed in as Ada")
			So(h.shell.Navigator().Location(), ShouldEqual, cli.ViewDashboard)

			Convey("And login is then a guest route that shows the dashboard", func() {
				So(h.run("login"), ShouldBeNil)
				So(h.out.String(), ShouldContainSubstring, "Already signed in.")
				So(h.out.String(), ShouldContainSubstring, "Total players")
			})

			Convey("And logout forgets the session", func() {
				So(h.run("logout"), ShouldBeNil)
				So(errors.Is(h.run("dashboard"), cli.ErrSignInRequired), ShouldBeTrue)
			})
		})
	})
}

func TestSessionExpiry(t *testing.T) {
	Convey("Given a signed-in shell whose token is revoked", t, func() {
		b := testutil.NewBackend()
		defer b.Close()
		h := newHarness(b, "")
		h.login()
		b.RevokeTokens()

		Convey("When a protected view loads", func() {
			err := h.run("players", "list")

			Convey("Then the session is evicted and the shell sent to login", func() {
				So(err, ShouldNotBeNil)
				So(h.errOut.String(), ShouldContainSubstring, "Session expired")
				So(h.shell.Navigator().Location(), ShouldEqual, cli.ViewLogin)
				So(errors.Is(h.run("players", "list"), cli.ErrSignInRequired), ShouldBeTrue)
			})
		})
	})
}

func TestNotifications(t *testing.T) {
	Convey("Given a signed-in shell", t, func() {
		b := testutil.NewBackend()
		defer b.Close()
		h := newHarness(b, "")
		h.login()

		Convey("A 403 raises the admin notice", func() {
			b.Override(http.MethodGet, "/admin/products/", func(w http.ResponseWriter, _ *http.Request) {
				testutil.WriteJSON(w, http.StatusForbidden, map[string]string{"detail": "nope"})
			})
			So(h.run("store", "products", "list"), ShouldNotBeNil)
			So(h.errOut.String(), ShouldContainSubstring, "[!] Admin access required")
		})

		Convey("A 500 raises the server message", func() {
			b.Override(http.MethodGet, "/admin/events/", func(w http.ResponseWriter, _ *http.Request) {
				testutil.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "database down"})
			})
			err := h.run("schedule", "list")
			So(err.Error(), ShouldEqual, "database down")
			So(h.errOut.String(), ShouldContainSubstring, "[x] database down")
		})
	})
}

func TestPlayersViews(t *testing.T) {
	Convey("Given a signed-in shell", t, func() {
		b := testutil.NewBackend()
		defer b.Close()
		h := newHarness(b, "")
		h.login()

		Convey("When a player is registered from flags", func() {
			err := h.run("players", "register",
				"-set", "surname=Okafor",
				"-set", "other_name=Chinedu",
				"-set", "parent_guardian_name=Mrs Okafor",
				"-set", "date_of_birth=2012-11-01",
				"-set", "weight=41",
				"-set", "any_medical_problem=true",
				"-weakness", "Speed",
			)

			Convey("Then the backend receives a complete record", func() {
				So(err, ShouldBeNil)
				So(h.out.String(), ShouldContainSubstring, "Registered player #1 Okafor Chinedu")
				rec, ok := b.Record("players", 1)
				So(ok, ShouldBeTrue)
				So(rec["surname"], ShouldEqual, "Okafor")
				So(rec["any_medical_problem"], ShouldEqual, true)
				So(rec["weaknesses"], ShouldResemble, []any{"Speed"})
				So(rec["admission_status"], ShouldEqual, "pending")
			})

			Convey("And it is listed with its age", func() {
				So(h.run("players", "list", "-search", "oka"), ShouldBeNil)
				So(h.out.String(), ShouldContainSubstring, "Okafor Chinedu")
				So(h.out.String(), ShouldContainSubstring, "13")
				So(b.LastRequest().Query, ShouldEqual, "search=oka")
			})

			Convey("And its status can be changed", func() {
				So(h.run("players", "status", "1", "admitted"), ShouldBeNil)
				So(h.out.String(), ShouldContainSubstring, "is now admitted")
			})

			Convey("And it can be deleted", func() {
				So(h.run("players", "delete", "1"), ShouldBeNil)
				_, ok := b.Record("players", 1)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("Registering without required fields is refused locally", func() {
			err := h.run("players", "register", "-set", "surname=Okafor")
			So(errors.Is(err, model.ErrRequired), ShouldBeTrue)
		})

		Convey("Unknown fields are refused", func() {
			err := h.run("players", "register", "-set", "shoe=9")
			So(err, ShouldNotBeNil)
		})

		Convey("A photo that cannot be uploaded is kept and sent after saving", func() {
			photo := filepath.Join(t.TempDir(), "kid.png")
			So(os.WriteFile(photo, []byte("\x89PNG\r\n"), 0o600), ShouldBeNil)
			b.Override(http.MethodPost, "/admin/uploads/image/", func(w http.ResponseWriter, _ *http.Request) {
				testutil.WriteJSON(w, http.StatusBadGateway, map[string]string{"detail": "storage offline"})
			})

			err := h.run("players", "register",
				"-set", "surname=Eze", "-set", "parent_guardian_name=Mr Eze", "-photo", photo)

			So(err, ShouldBeNil)
			So(h.errOut.String(), ShouldContainSubstring, "uploaded locally")
			rec, _ := b.Record("players", 1)
			So(rec["player_image"], ShouldEqual, "https://cdn.befa.test/players/1/kid.png")
		})

		Convey("The registration PDF can be saved", func() {
			id := b.Seed("players", map[string]any{"surname": "Bello"})
			out := filepath.Join(t.TempDir(), "bello.pdf")
			So(h.run("players", "pdf", "1", "-o", out), ShouldBeNil)
			So(id, ShouldEqual, 1)
			data, err := os.ReadFile(out)
			So(err, ShouldBeNil)
			So(string(data), ShouldStartWith, "%PDF")
		})
	})
}

func TestOtherViews(t *testing.T) {
	Convey("Given a signed-in shell", t, func() {
		b := testutil.NewBackend()
		defer b.Close()
		h := newHarness(b, "")
		h.login()

		Convey("Schedule entries need a date, time and venue", func() {
			err := h.run("schedule", "add", "-title", "Friendly", "-date", "2026-11-01")
			So(err.Error(), ShouldEqual, "Date, time, and venue are required")

			So(h.run("schedule", "add", "-title", "Friendly", "-type", "match",
				"-date", "2026-11-01", "-time", "16:00", "-venue", "Main Pitch"), ShouldBeNil)
			So(h.run("schedule", "list"), ShouldBeNil)
			So(h.out.String(), ShouldContainSubstring, "Nov 1, 2026")
		})

		Convey("News posts are published with their author", func() {
			So(h.run("news", "add", "-title", "Trials", "-content", "Open trials on Saturday"), ShouldBeNil)
			So(h.run("news", "list"), ShouldBeNil)
			So(h.out.String(), ShouldContainSubstring, "published")
			So(h.out.String(), ShouldContainSubstring, testutil.AdminEmail)
		})

		Convey("Products parse their price", func() {
			So(h.run("store", "products", "add", "-name", "Jersey", "-price", "2500.00", "-size", "M"), ShouldBeNil)
			So(h.run("store", "products", "list"), ShouldBeNil)
			So(h.out.String(), ShouldContainSubstring, "NGN 2500")
		})

		Convey("Order status updates are validated", func() {
			b.Seed("orders", map[string]any{"user": "parent@befa.ng", "status": "pending", "products": []any{}})
			So(errors.Is(h.run("store", "orders", "status", "1", "lost"), model.ErrInvalidStatus), ShouldBeTrue)
			So(h.run("store", "orders", "status", "1", "shipped"), ShouldBeNil)
			So(h.out.String(), ShouldContainSubstring, "Order #1 is now shipped")
		})

		Convey("whoami shows the cached profile", func() {
			So(h.run("whoami"), ShouldBeNil)
			So(h.out.String(), ShouldContainSubstring, testutil.AdminEmail)
		})
	})
}

func TestFormat(t *testing.T) {
	Convey("Formatting helpers", t, func() {
		So(cli.Age("2012-11-01", today), ShouldEqual, "13")
		So(cli.Age("2012-10-16", today), ShouldEqual, "14")
		So(cli.Age("", today), ShouldEqual, "-")
		So(cli.Initials("okafor chinedu emeka"), ShouldEqual, "OC")
		So(cli.Initials(""), ShouldEqual, "?")
		So(cli.FormatDate("2026-01-15T10:00:00Z"), ShouldEqual, "Jan 15, 2026")
		So(cli.FormatDate("soon"), ShouldEqual, "soon")
		up := model.Number(12)
		down := model.Number(-3.5)
		So(cli.Trend(&up), ShouldEqual, "+12%")
		So(cli.Trend(&down), ShouldEqual, "-3.5%")
		So(cli.Trend(nil), ShouldEqual, "")
	})
}
