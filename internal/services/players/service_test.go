package players_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/befa-admin/internal/adapters/http/transport"
	"github.com/okian/befa-admin/internal/domain/model"
	"github.com/okian/befa-admin/internal/services"
	"github.com/okian/befa-admin/internal/services/players"
	"github.com/okian/befa-admin/internal/session"
	"github.com/okian/befa-admin/internal/testutil"
)

func signedIn(b *testutil.Backend) *transport.Client {
	st := session.NewMemoryStore()
	_ = st.Set(context.Background(), session.Session{AccessToken: testutil.AccessToken})
	return transport.New(b.URL(), st)
}

func TestPlayersService(t *testing.T) {
	Convey("Given a backend with two players", t, func() {
		b := testutil.NewBackend()
		defer b.Close()
		b.Seed("players", map[string]any{"surname": "Adeyemi", "soccer_position": "Striker", "admission_status": "pending"})
		b.Seed("players", map[string]any{"surname": "Bello", "soccer_position": "Goalkeeper", "admission_status": "admitted"})
		svc := players.NewService(signedIn(b))
		ctx := context.Background()

		Convey("When listing with a position filter", func() {
			got, err := svc.List(ctx, model.PlayerFilters{Position: "Goalkeeper"})

			Convey("Then only matching players come back and the filter is a query param", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 1)
				So(got[0].Surname, ShouldEqual, "Bello")
				So(b.LastRequest().Query, ShouldEqual, "position=Goalkeeper")
			})
		})

		Convey("When the list arrives paginated", func() {
			b.Paginate(true)
			got, err := svc.List(ctx, model.PlayerFilters{})

			Convey("Then the envelope is unwrapped", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 2)
				So(b.LastRequest().Query, ShouldEqual, "")
			})
		})

		Convey("When a player is created, patched and deleted", func() {
			p := model.NewPlayer()
			p.Surname, p.ParentGuardianName = "Chukwu", "Mr Chukwu"
			p.Weaknesses = model.NewWeaknesses("Speed")
			created, err := svc.Create(ctx, p)
			So(err, ShouldBeNil)
			So(created.ID, ShouldBeGreaterThan, 0)
			So(created.Weaknesses.Has("Speed"), ShouldBeTrue)

			updated, err := svc.UpdateStatus(ctx, created.ID, model.AdmissionAdmitted)
			So(err, ShouldBeNil)
			So(updated.AdmissionStatus, ShouldEqual, model.AdmissionAdmitted)
			So(string(b.LastRequest().Body), ShouldEqual, `{"admission_status":"admitted"}`)

			So(svc.Delete(ctx, created.ID), ShouldBeNil)
			_, err = svc.Get(ctx, created.ID)

			Convey("Then the deleted player is gone", func() {
				So(transport.StatusOf(err), ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When a stored player no longer fits the player shape", func() {
			b.Seed("players", map[string]any{"surname": 5})
			b.Paginate(true)
			got, err := svc.List(ctx, model.PlayerFilters{})

			Convey("Then the list fails instead of coming back empty", func() {
				So(got, ShouldBeNil)
				So(errors.Is(err, transport.ErrDecode), ShouldBeTrue)
				So(transport.StatusOf(err), ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the same player is deleted twice", func() {
			So(svc.Delete(ctx, 1), ShouldBeNil)
			err := svc.Delete(ctx, 1)

			Convey("Then the second delete is an ordinary not-found error", func() {
				var e *transport.Error
				So(errors.As(err, &e), ShouldBeTrue)
				So(e.Status, ShouldEqual, http.StatusNotFound)
				So(len(b.Requests()), ShouldEqual, 2)
			})
		})

		Convey("When a photo is uploaded", func() {
			a, err := svc.UploadPhoto(ctx, 1, transport.NewFile("face.png", []byte("png")))

			Convey("Then the reply carries image_url", func() {
				So(err, ShouldBeNil)
				So(a.ImageURL, ShouldEqual, "https://cdn.befa.test/players/1/face.png")
				So(a.Location(), ShouldEqual, a.ImageURL)
				So(strings.HasPrefix(b.LastRequest().ContentType, "multipart/form-data"), ShouldBeTrue)
			})
		})

		Convey("When a non-image is offered as a photo", func() {
			_, err := svc.UploadPhoto(ctx, 1, transport.NewFile("notes.txt", []byte("hi")))

			Convey("Then no request is made", func() {
				So(errors.Is(err, services.ErrNotImage), ShouldBeTrue)
				So(len(b.Requests()), ShouldEqual, 0)
			})
		})

		Convey("The PDF link and download use the same path", func() {
			So(svc.DownloadPDFURL(2), ShouldEqual, b.URL()+"/admin/players/2/download-pdf/")
			var buf bytes.Buffer
			So(svc.DownloadPDF(ctx, 2, &buf), ShouldBeNil)
			So(strings.HasPrefix(buf.String(), "%PDF"), ShouldBeTrue)
		})
	})
}

func TestExtractFromPDF(t *testing.T) {
	Convey("Given an OCR backend", t, func() {
		b := testutil.NewBackend()
		defer b.Close()
		b.SetExtraction(map[string]any{"surname": "Okafor", "weaknesses": []string{"Heading"}})
		ctx := context.Background()

		Convey("When a PDF is submitted", func() {
			ex, err := players.NewService(signedIn(b)).ExtractFromPDF(ctx, transport.NewFile("form.pdf", []byte("%PDF")))

			Convey("Then the partial form comes back", func() {
				So(err, ShouldBeNil)
				So(ex.Keys(), ShouldResemble, []string{"surname", "weaknesses"})
			})
		})

		Convey("When OCR takes longer than the extraction timeout", func() {
			b.Override(http.MethodPost, "/admin/players/extract-from-pdf/", func(w http.ResponseWriter, r *http.Request) {
				<-r.Context().Done()
			})
			svc := players.NewService(signedIn(b), players.WithExtractTimeout(30*time.Millisecond))
			_, err := svc.ExtractFromPDF(ctx, transport.NewFile("form.pdf", []byte("%PDF")))

			Convey("Then it fails as a connectivity error", func() {
				So(errors.Is(err, transport.ErrOffline), ShouldBeTrue)
				So(transport.StatusOf(err), ShouldEqual, 0)
			})
		})

		Convey("When the file is not a PDF", func() {
			_, err := players.NewService(signedIn(b)).ExtractFromPDF(ctx, transport.NewFile("form.png", []byte("png")))
			So(errors.Is(err, services.ErrNotPDF), ShouldBeTrue)
		})
	})
}
