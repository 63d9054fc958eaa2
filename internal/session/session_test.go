package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeRedis struct {
	mu     sync.Mutex
	data   map[string]string
	failed error
}

func newFakeRedis() *fakeRedis { return &fakeRedis{data: map[string]string{}} }

func (f *fakeRedis) MGet(_ context.Context, keys ...string) *redis.SliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed != nil {
		return redis.NewSliceResult(nil, f.failed)
	}
	out := make([]interface{}, len(keys))
	for i, k := range keys {
		if v, ok := f.data[k]; ok {
			out[i] = v
		}
	}
	return redis.NewSliceResult(out, nil)
}

func (f *fakeRedis) MSet(_ context.Context, values ...interface{}) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed != nil {
		return redis.NewStatusResult("", f.failed)
	}
	for i := 0; i+1 < len(values); i += 2 {
		f.data[values[i].(string)] = values[i+1].(string)
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func exerciseStore(st Store) {
	ctx := context.Background()

	Convey("When nothing has been stored", func() {
		s, err := st.Get(ctx)

		Convey("Then the session is empty", func() {
			So(err, ShouldBeNil)
			So(s.Authenticated(), ShouldBeFalse)
		})
	})

	Convey("When a session is set", func() {
		want := Session{AccessToken: "acc", RefreshToken: "ref", User: json.RawMessage(`{"email":"admin@befa.ng"}`)}
		So(st.Set(ctx, want), ShouldBeNil)
		got, err := st.Get(ctx)

		Convey("Then it round-trips", func() {
			So(err, ShouldBeNil)
			So(got.AccessToken, ShouldEqual, "acc")
			So(got.RefreshToken, ShouldEqual, "ref")
			So(string(got.User), ShouldEqual, `{"email":"admin@befa.ng"}`)
		})

		Convey("And Update rewrites a single field", func() {
			So(Update(ctx, st, func(s *Session) { s.AccessToken = "acc2" }), ShouldBeNil)
			got, err := st.Get(ctx)
			So(err, ShouldBeNil)
			So(got.AccessToken, ShouldEqual, "acc2")
			So(got.RefreshToken, ShouldEqual, "ref")
		})

		Convey("And Clear removes everything", func() {
			So(st.Clear(ctx), ShouldBeNil)
			got, err := st.Get(ctx)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, Session{})
		})
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory store", t, func() {
		exerciseStore(NewMemoryStore())
	})

	Convey("Given concurrent writers and readers", t, func() {
		st := NewMemoryStore()
		ctx := context.Background()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = st.Set(ctx, Session{AccessToken: "a"})
			}()
			go func() {
				defer wg.Done()
				_, _ = st.Get(ctx)
			}()
		}
		wg.Wait()
		s, _ := st.Get(ctx)
		So(s.AccessToken, ShouldEqual, "a")
	})
}

func TestFileStore(t *testing.T) {
	Convey("Given a file store", t, func() {
		path := filepath.Join(t.TempDir(), "nested", "session.json")
		st := NewFileStore(path)
		So(st.Path(), ShouldEqual, path)
		exerciseStore(st)

		Convey("When the session is written", func() {
			So(st.Set(context.Background(), Session{AccessToken: "x"}), ShouldBeNil)

			Convey("Then the file is private", func() {
				info, err := os.Stat(path)
				So(err, ShouldBeNil)
				So(info.Mode().Perm(), ShouldEqual, os.FileMode(0o600))
			})
		})

		Convey("When the file holds garbage", func() {
			So(os.MkdirAll(filepath.Dir(path), 0o700), ShouldBeNil)
			So(os.WriteFile(path, []byte("{not json"), 0o600), ShouldBeNil)
			_, err := st.Get(context.Background())

			Convey("Then it reports a corrupt session", func() {
				So(errors.Is(err, ErrCorruptSession), ShouldBeTrue)
			})
		})
	})
}

func TestRedisStore(t *testing.T) {
	Convey("Given a redis store", t, func() {
		fake := newFakeRedis()
		st := NewRedisStore(fake, "befa_")
		exerciseStore(st)

		Convey("When a session is set through redis", func() {
			So(st.Set(context.Background(), Session{AccessToken: "tok"}), ShouldBeNil)

			Convey("Then keys are prefixed", func() {
				So(fake.data["befa_access_token"], ShouldEqual, "tok")
			})
		})

		Convey("When redis fails", func() {
			fake.failed = errors.New("connection refused")
			_, err := st.Get(context.Background())

			Convey("Then the store is unavailable", func() {
				So(errors.Is(err, ErrStoreUnavailable), ShouldBeTrue)
			})
		})

		Convey("When the user key is not JSON", func() {
			fake.data["befa_user"] = "{oops"
			_, err := st.Get(context.Background())
			So(errors.Is(err, ErrCorruptSession), ShouldBeTrue)
		})

		Convey("Close without an owned client is a no-op", func() {
			So(st.Close(), ShouldBeNil)
		})
	})

	Convey("Given no redis address", t, func() {
		_, err := DialRedis(context.Background(), "", "befa_")
		So(errors.Is(err, ErrStoreUnavailable), ShouldBeTrue)
	})
}

func TestSessionUser(t *testing.T) {
	Convey("Given a session with a cached user", t, func() {
		s := Session{User: json.RawMessage(`{"email":"coach@befa.ng"}`)}
		var u struct {
			Email string `json:"email"`
		}

		So(s.DecodeUser(&u), ShouldBeNil)
		So(u.Email, ShouldEqual, "coach@befa.ng")

		Convey("A broken profile is reported", func() {
			bad := Session{User: json.RawMessage(`{`)}
			So(errors.Is(bad.DecodeUser(&u), ErrCorruptSession), ShouldBeTrue)
		})
	})
}

func TestParseClaims(t *testing.T) {
	Convey("Given a signed access token", t, func() {
		exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":     "7",
			"user_id": 7,
			"exp":     exp.Unix(),
			"iat":     exp.Add(-time.Hour).Unix(),
		})
		raw, err := tok.SignedString([]byte("not-our-secret"))
		So(err, ShouldBeNil)

		Convey("When parsed without the key", func() {
			c, err := ParseClaims(raw)

			Convey("Then the payload is exposed", func() {
				So(err, ShouldBeNil)
				So(c.Subject, ShouldEqual, "7")
				So(c.UserID, ShouldEqual, "7")
				So(c.ExpiresAt.Equal(exp), ShouldBeTrue)
				So(c.Expired(exp.Add(-time.Minute)), ShouldBeFalse)
				So(c.Expired(exp), ShouldBeTrue)
			})
		})
	})

	Convey("Given a token that is not a JWT", t, func() {
		_, err := ParseClaims("opaque-token")
		So(errors.Is(err, ErrCorruptSession), ShouldBeTrue)
	})
}
