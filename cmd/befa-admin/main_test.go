package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/befa-admin/internal/testutil"
)

func TestRun(t *testing.T) {
	convey.Convey("Given a backend and a memory session", t, func() {
		b := testutil.NewBackend()
		defer b.Close()
		t.Setenv("BEFA_API_URL", b.URL())
		t.Setenv("BEFA_SESSION_BACKEND", "memory")
		ctx := context.Background()

		convey.Convey("When the operator signs in", func() {
			var out, errOut bytes.Buffer
			code := run(ctx, []string{"login", "-email", testutil.AdminEmail}, strings.NewReader(testutil.AdminPassword+"\n"), &out, &errOut)

			convey.Convey("Then the command succeeds", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(out.String(), convey.ShouldContainSubstring, "Signed in as Ada")
			})
		})

		convey.Convey("When a protected command runs without a session", func() {
			var out, errOut bytes.Buffer
			code := run(ctx, []string{"dashboard"}, strings.NewReader(""), &out, &errOut)

			convey.Convey("Then it fails and asks for a sign in", func() {
				convey.So(code, convey.ShouldEqual, exitError)
				convey.So(errOut.String(), convey.ShouldContainSubstring, "sign in required")
			})
		})

		convey.Convey("When the command is unknown", func() {
			var out, errOut bytes.Buffer
			code := run(ctx, []string{"teams"}, strings.NewReader(""), &out, &errOut)
			convey.So(code, convey.ShouldEqual, exitUsage)
		})
	})

	convey.Convey("Given an invalid configuration", t, func() {
		t.Setenv("BEFA_API_URL", "not a url")
		var out, errOut bytes.Buffer
		code := run(context.Background(), []string{"dashboard"}, strings.NewReader(""), &out, &errOut)
		convey.So(code, convey.ShouldEqual, exitError)
		convey.So(errOut.String(), convey.ShouldContainSubstring, "failed to load config")
	})
}
