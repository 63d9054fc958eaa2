package state

import (
	"context"
	"sync"

	"github.com/okian/befa-admin/pkg/logger"
	"github.com/okian/befa-admin/pkg/metrics"
)

// MutationSnapshot is a point-in-time copy of a mutation's state.
type MutationSnapshot struct {
	Loading bool
	Err     string
	Status  int
}

// Action performs one write.
type Action[A, R any] func(ctx context.Context, args A) (R, error)

// Mutation is a reusable write with observable state. Safe for concurrent use.
type Mutation[A, R any] struct {
	cfg    config
	action Action[A, R]

	mu       sync.Mutex
	snap     MutationSnapshot
	inflight int
	version  uint64
	subs     subscribers[MutationSnapshot]
}

// NewMutation builds a mutation. It never runs on construction.
func NewMutation[A, R any](action Action[A, R], opts ...Option) *Mutation[A, R] {
	return &Mutation[A, R]{cfg: newConfig(opts), action: action}
}

// Snapshot returns the current state.
func (m *Mutation[A, R]) Snapshot() MutationSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// Subscribe registers fn for every state change and returns a cancel func.
func (m *Mutation[A, R]) Subscribe(fn func(MutationSnapshot)) func() {
	return m.subs.add(fn)
}

// Execute runs the action. The error is recorded and also returned to the caller.
// Loading clears even when the action panics.
func (m *Mutation[A, R]) Execute(ctx context.Context, args A) (res R, err error) {
	m.mu.Lock()
	m.inflight++
	m.snap = MutationSnapshot{Loading: true}
	m.version++
	started, version := m.snap, m.version
	m.mu.Unlock()
	m.subs.publish(version, started)

	completed := false
	defer func() {
		if !completed {
			err = errAborted
		}
		m.settle(ctx, err)
	}()
	res, err = m.action(ctx, args)
	completed = true
	return res, err
}

func (m *Mutation[A, R]) settle(ctx context.Context, err error) {
	m.mu.Lock()
	m.inflight--
	m.snap.Loading = m.inflight > 0
	outcome := "success"
	if err != nil {
		outcome = "error"
		m.snap.Err = messageOf(err)
		m.snap.Status = statusOf(err)
	}
	m.version++
	snap, version := m.snap, m.version
	m.mu.Unlock()

	metrics.RecordMutation(m.cfg.name, outcome)
	if err != nil {
		m.cfg.logger.Debug(ctx, "mutation failed", logger.String("mutation", m.cfg.name), logger.Error(err))
	}
	m.subs.publish(version, snap)
}
