// Package state holds the generic request-state containers views read from.
//
// A Query tracks {data, loading, error, offline} for a read; a Mutation tracks
// {loading, error} for a write and hands the outcome back to its caller.
package state

import (
	"context"
	"sync"

	"github.com/okian/befa-admin/pkg/logger"
	"github.com/okian/befa-admin/pkg/metrics"
)

// Snapshot is a point-in-time copy of a query's state.
// Offline is set when the failure carried no HTTP status; Err is then empty
// and Data is back at the initial value.
type Snapshot[T any] struct {
	Data    T
	Loading bool
	Err     string
	Offline bool
	Status  int
	Cause   error
}

// Failed reports whether the last completed fetch failed for any reason.
func (s Snapshot[T]) Failed() bool { return s.Err != "" || s.Offline }

// Fetcher performs one read.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Query is a reusable read with observable state. Safe for concurrent use.
type Query[T any] struct {
	cfg     config
	fetch   Fetcher[T]
	initial T

	mu   sync.Mutex
	snap Snapshot[T]
	seq     uint64
	version uint64
	subs    subscribers[Snapshot[T]]
}

// NewQuery builds a query. Unless WithImmediate(false) is given it executes once before returning.
func NewQuery[T any](ctx context.Context, fetch Fetcher[T], initial T, opts ...Option) *Query[T] {
	q := &Query[T]{
		cfg:     newConfig(opts),
		fetch:   fetch,
		initial: initial,
		snap:    Snapshot[T]{Data: initial},
	}
	if q.cfg.immediate {
		q.Execute(ctx)
	}
	return q
}

// Snapshot returns the current state.
func (q *Query[T]) Snapshot() Snapshot[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snap
}

// SetData replaces the data without a request.
func (q *Query[T]) SetData(v T) {
	q.Update(func(T) T { return v })
}

// Update rewrites the data in place.
func (q *Query[T]) Update(fn func(T) T) {
	q.mu.Lock()
	q.snap.Data = fn(q.snap.Data)
	q.version++
	snap, version := q.snap, q.version
	q.mu.Unlock()
	q.subs.publish(version, snap)
}

// Subscribe registers fn for every state change and returns a cancel func.
func (q *Query[T]) Subscribe(fn func(Snapshot[T])) func() {
	return q.subs.add(fn)
}

// Execute fetches and applies the outcome. It never returns an error;
// failures are recorded in the snapshot. Loading clears even when the fetch panics.
func (q *Query[T]) Execute(ctx context.Context) Snapshot[T] {
	q.mu.Lock()
	q.seq++
	token := q.seq
	q.snap.Loading = true
	q.snap.Err = ""
	q.snap.Offline = false
	q.snap.Status = 0
	q.snap.Cause = nil
	q.version++
	started, version := q.snap, q.version
	q.mu.Unlock()
	q.subs.publish(version, started)
	metrics.RecordStateTransition(q.cfg.name, "loading")

	completed := false
	defer func() {
		if !completed {
			q.abort(ctx, token)
		}
	}()
	data, err := q.fetch(ctx)
	completed = true
	return q.settle(ctx, token, data, err)
}

func (q *Query[T]) settle(ctx context.Context, token uint64, data T, err error) Snapshot[T] {
	q.mu.Lock()
	if q.cfg.policy == DiscardStale && token != q.seq {
		snap := q.snap
		q.mu.Unlock()
		metrics.RecordStaleDiscarded()
		q.cfg.logger.Debug(ctx, "discarded stale response", logger.String("query", q.cfg.name))
		return snap
	}

	outcome := "success"
	switch {
	case err == nil:
		q.snap.Data = data
	case statusOf(err) == 0:
		outcome = "offline"
		q.snap.Offline = true
		q.snap.Data = q.initial
		q.snap.Cause = err
	default:
		outcome = "error"
		q.snap.Err = messageOf(err)
		q.snap.Status = statusOf(err)
		q.snap.Cause = err
	}
	q.snap.Loading = false
	q.version++
	snap, version := q.snap, q.version
	q.mu.Unlock()

	metrics.RecordStateTransition(q.cfg.name, outcome)
	if err != nil {
		q.cfg.logger.Debug(ctx, "query failed",
			logger.String("query", q.cfg.name),
			logger.String("outcome", outcome),
			logger.Error(err),
		)
	}
	q.subs.publish(version, snap)
	return snap
}

// abort settles a fetch that never returned. Data is left as it was.
func (q *Query[T]) abort(ctx context.Context, token uint64) {
	q.mu.Lock()
	if token != q.seq {
		q.mu.Unlock()
		return
	}
	q.snap.Loading = false
	q.snap.Err = messageOf(errAborted)
	q.snap.Cause = errAborted
	q.version++
	snap, version := q.snap, q.version
	q.mu.Unlock()

	metrics.RecordStateTransition(q.cfg.name, "error")
	q.cfg.logger.Debug(ctx, "query aborted", logger.String("query", q.cfg.name))
	q.subs.publish(version, snap)
}
