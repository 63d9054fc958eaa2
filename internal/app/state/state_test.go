package state

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/befa-admin/internal/adapters/http/transport"
)

func TestQuery(t *testing.T) {
	ctx := context.Background()

	Convey("Given an immediate query", t, func() {
		calls := 0
		q := NewQuery(ctx, func(context.Context) ([]string, error) {
			calls++
			return []string{"a"}, nil
		}, []string{}, WithName("players"))

		Convey("Then it fetched once on construction", func() {
			So(calls, ShouldEqual, 1)
			s := q.Snapshot()
			So(s.Data, ShouldResemble, []string{"a"})
			So(s.Loading, ShouldBeFalse)
			So(s.Failed(), ShouldBeFalse)
		})

		Convey("SetData replaces the data without fetching", func() {
			q.SetData([]string{"b"})
			So(q.Snapshot().Data, ShouldResemble, []string{"b"})
			So(calls, ShouldEqual, 1)
		})
	})

	Convey("Given a deferred query", t, func() {
		var next error
		q := NewQuery(ctx, func(context.Context) (int, error) {
			if next != nil {
				return 0, next
			}
			return 42, nil
		}, -1, WithImmediate(false))

		So(q.Snapshot().Data, ShouldEqual, -1)
		q.Execute(ctx)
		So(q.Snapshot().Data, ShouldEqual, 42)

		Convey("When the backend answers with a status", func() {
			next = &transport.Error{Message: "Not found.", Status: 404}
			s := q.Execute(ctx)

			Convey("Then the error is recorded and the data kept", func() {
				So(s.Err, ShouldEqual, "Not found.")
				So(s.Status, ShouldEqual, 404)
				So(s.Offline, ShouldBeFalse)
				So(s.Data, ShouldEqual, 42)
				So(s.Loading, ShouldBeFalse)
			})

			Convey("And a later success clears it", func() {
				next = nil
				s := q.Execute(ctx)
				So(s.Err, ShouldEqual, "")
				So(s.Status, ShouldEqual, 0)
			})
		})

		Convey("When the backend is unreachable", func() {
			next = &transport.Error{Message: "Network Error"}
			s := q.Execute(ctx)

			Convey("Then the query is offline with initial data and no message", func() {
				So(s.Offline, ShouldBeTrue)
				So(s.Err, ShouldEqual, "")
				So(s.Data, ShouldEqual, -1)
				So(errors.Is(s.Cause, transport.ErrOffline), ShouldBeTrue)
			})
		})
	})
}

// racingQuery returns a query whose fetches park until their gate opens.
func racingQuery(policy StalePolicy) (*Query[string], chan string, map[string]chan struct{}) {
	gates := map[string]chan struct{}{"first": make(chan struct{}), "second": make(chan struct{})}
	entered := make(chan string, 2)
	var mu sync.Mutex
	order := []string{"first", "second"}
	q := NewQuery(context.Background(), func(context.Context) (string, error) {
		mu.Lock()
		name := order[0]
		order = order[1:]
		mu.Unlock()
		entered <- name
		<-gates[name]
		return name, nil
	}, "", WithImmediate(false), WithStalePolicy(policy))
	return q, entered, gates
}

// runRace starts two executes and resolves the newer one first.
func runRace(q *Query[string], entered chan string, gates map[string]chan struct{}) {
	ctx := context.Background()
	doneFirst, doneSecond := make(chan struct{}), make(chan struct{})

	go func() {
		defer close(doneFirst)
		q.Execute(ctx)
	}()
	<-entered
	go func() {
		defer close(doneSecond)
		q.Execute(ctx)
	}()
	<-entered

	close(gates["second"])
	<-doneSecond
	close(gates["first"])
	<-doneFirst
}

func TestStalePolicy(t *testing.T) {
	Convey("Given two overlapping executes where the older resolves last", t, func() {
		Convey("With DiscardStale the newest response wins", func() {
			q, entered, gates := racingQuery(DiscardStale)
			runRace(q, entered, gates)
			So(q.Snapshot().Data, ShouldEqual, "second")
			So(q.Snapshot().Loading, ShouldBeFalse)
		})

		Convey("With LastResolvedWins the older response overwrites", func() {
			q, entered, gates := racingQuery(LastResolvedWins)
			runRace(q, entered, gates)
			So(q.Snapshot().Data, ShouldEqual, "first")
		})
	})

	Convey("Policies parse from configuration", t, func() {
		p, err := ParseStalePolicy("last_resolved_wins")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, LastResolvedWins)
		p, err = ParseStalePolicy("")
		So(err, ShouldBeNil)
		So(p.String(), ShouldEqual, "discard")
		_, err = ParseStalePolicy("newest")
		So(errors.Is(err, ErrUnknownPolicy), ShouldBeTrue)
	})
}

type filters struct {
	Search   string
	Position string
}

func TestKeyed(t *testing.T) {
	ctx := context.Background()

	Convey("Given a keyed query over filters", t, func() {
		var seen []filters
		k := NewKeyed(ctx, func(_ context.Context, f filters) (int, error) {
			seen = append(seen, f)
			return len(seen), nil
		}, filters{}, 0)

		So(len(seen), ShouldEqual, 1)

		Convey("When the key is set to an equal value", func() {
			_, changed := k.SetKey(ctx, filters{})

			Convey("Then nothing is fetched", func() {
				So(changed, ShouldBeFalse)
				So(len(seen), ShouldEqual, 1)
			})
		})

		Convey("When the key changes", func() {
			s, changed := k.SetKey(ctx, filters{Position: "Defender"})

			Convey("Then the query re-executes with the new key", func() {
				So(changed, ShouldBeTrue)
				So(s.Data, ShouldEqual, 2)
				So(seen[1].Position, ShouldEqual, "Defender")
				So(k.Key().Position, ShouldEqual, "Defender")
			})

			Convey("And an explicit Execute reuses it", func() {
				k.Execute(ctx)
				So(seen[2].Position, ShouldEqual, "Defender")
			})
		})
	})
}

func TestMutation(t *testing.T) {
	ctx := context.Background()

	Convey("Given a mutation", t, func() {
		fail := true
		m := NewMutation(func(_ context.Context, id int64) (string, error) {
			if fail {
				return "", &transport.Error{Message: "Player not found", Status: 404}
			}
			return "ok", nil
		}, WithName("delete_player"))

		var states []MutationSnapshot
		cancel := m.Subscribe(func(s MutationSnapshot) { states = append(states, s) })

		Convey("When the action fails", func() {
			_, err := m.Execute(ctx, 7)

			Convey("Then the error is both returned and recorded", func() {
				So(err, ShouldNotBeNil)
				So(transport.StatusOf(err), ShouldEqual, 404)
				s := m.Snapshot()
				So(s.Loading, ShouldBeFalse)
				So(s.Err, ShouldEqual, "Player not found")
				So(s.Status, ShouldEqual, 404)
				So(len(states), ShouldEqual, 2)
				So(states[0].Loading, ShouldBeTrue)
			})

			Convey("And a retry that succeeds clears the error", func() {
				fail = false
				res, err := m.Execute(ctx, 7)
				So(err, ShouldBeNil)
				So(res, ShouldEqual, "ok")
				So(m.Snapshot(), ShouldResemble, MutationSnapshot{})
			})
		})

		Convey("When unsubscribed", func() {
			cancel()
			fail = false
			_, _ = m.Execute(ctx, 1)
			So(states, ShouldBeEmpty)
		})
	})
}

func TestPanicClearsLoading(t *testing.T) {
	ctx := context.Background()

	Convey("Given a mutation whose action panics", t, func() {
		m := NewMutation(func(context.Context, int64) (string, error) {
			panic("boom")
		})
		func() {
			defer func() { _ = recover() }()
			_, _ = m.Execute(ctx, 1)
		}()

		Convey("Then it is not left loading", func() {
			s := m.Snapshot()
			So(s.Loading, ShouldBeFalse)
			So(s.Err, ShouldEqual, "request aborted")
		})
	})

	Convey("Given a query whose fetch panics", t, func() {
		q := NewQuery(ctx, func(context.Context) (int, error) {
			panic("boom")
		}, 3, WithImmediate(false))
		func() {
			defer func() { _ = recover() }()
			q.Execute(ctx)
		}()

		Convey("Then it is not left loading and the data is kept", func() {
			s := q.Snapshot()
			So(s.Loading, ShouldBeFalse)
			So(s.Data, ShouldEqual, 3)
			So(s.Failed(), ShouldBeTrue)
		})
	})
}

func TestSubscriberOrder(t *testing.T) {
	Convey("Given a subscriber list", t, func() {
		var subs subscribers[string]
		var got []string
		subs.add(func(s string) { got = append(got, s) })

		Convey("A snapshot older than one already delivered is dropped", func() {
			subs.publish(2, "settled")
			subs.publish(1, "loading")
			subs.publish(3, "next")
			So(got, ShouldResemble, []string{"settled", "next"})
		})
	})

	Convey("Given overlapping executions of one query", t, func() {
		ctx := context.Background()
		release := make(chan struct{})
		var calls int
		var mu sync.Mutex
		q := NewQuery(ctx, func(context.Context) (int, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 1 {
				<-release
			}
			return n, nil
		}, 0, WithImmediate(false))

		var seen []Snapshot[int]
		var seenMu sync.Mutex
		q.Subscribe(func(s Snapshot[int]) {
			seenMu.Lock()
			seen = append(seen, s)
			seenMu.Unlock()
		})

		done := make(chan struct{})
		go func() {
			q.Execute(ctx)
			close(done)
		}()
		for !q.Snapshot().Loading {
			runtime.Gosched()
		}
		q.Execute(ctx)
		close(release)
		<-done

		Convey("Then the last delivered snapshot is the settled one", func() {
			seenMu.Lock()
			defer seenMu.Unlock()
			last := seen[len(seen)-1]
			So(last.Loading, ShouldBeFalse)
			So(last.Data, ShouldEqual, 2)
			So(q.Snapshot(), ShouldResemble, last)
		})
	})
}
