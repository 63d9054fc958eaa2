package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// KeyedFetcher performs one read for a key.
type KeyedFetcher[K, T any] func(ctx context.Context, key K) (T, error)

// Keyed is a Query bound to a parameter. Changing the key by value re-executes.
type Keyed[K, T any] struct {
	*Query[T]

	mu          sync.Mutex
	key         K
	fingerprint string
}

// NewKeyed builds a keyed query starting at key.
func NewKeyed[K, T any](ctx context.Context, fetch KeyedFetcher[K, T], key K, initial T, opts ...Option) *Keyed[K, T] {
	k := &Keyed[K, T]{key: key, fingerprint: fingerprint(key)}
	cfg := newConfig(opts)
	deferred := append(append([]Option{}, opts...), WithImmediate(false))
	k.Query = NewQuery(ctx, func(ctx context.Context) (T, error) {
		return fetch(ctx, k.Key())
	}, initial, deferred...)
	if cfg.immediate {
		k.Execute(ctx)
	}
	return k
}

// Key returns the current key.
func (k *Keyed[K, T]) Key() K {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.key
}

// SetKey stores key and re-executes when it differs by value from the current one.
// changed is false when the key was equal and nothing was fetched.
func (k *Keyed[K, T]) SetKey(ctx context.Context, key K) (snap Snapshot[T], changed bool) {
	fp := fingerprint(key)
	k.mu.Lock()
	if fp == k.fingerprint {
		k.mu.Unlock()
		return k.Snapshot(), false
	}
	k.key = key
	k.fingerprint = fp
	k.mu.Unlock()
	return k.Execute(ctx), true
}

// fingerprint is a canonical encoding: struct fields in declaration order, map keys sorted.
func fingerprint(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}
