// Package session holds the signed-in operator's tokens and cached profile.
//
// A Store is the only piece of shared mutable state in the client: the
// transport reads it on every request, login writes it, and logout or an
// unauthenticated response clears it. Every implementation serializes its
// read/modify/write cycle.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/okian/befa-admin/pkg/metrics"
)

// Keys under which the session is persisted by key-value backends.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// Sentinel errors for session stores.
var (
	ErrStoreUnavailable = errors.New("session store unavailable")
	ErrCorruptSession   = errors.New("session data corrupt")
)

// Session is the persisted authentication state.
type Session struct {
	AccessToken  string          `json:"access_token,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	User         json.RawMessage `json:"user,omitempty"`
}

// Authenticated reports whether an access token is present.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// DecodeUser unmarshals the cached profile into v. A missing profile leaves v untouched.
func (s Session) DecodeUser(v any) error {
	if len(s.User) == 0 || string(s.User) == "null" {
		return nil
	}
	if err := json.Unmarshal(s.User, v); err != nil {
		return errors.Join(ErrCorruptSession, err)
	}
	return nil
}

// Store persists a Session. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context) (Session, error)
	Set(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// Updater is implemented by stores that can apply a read/modify/write atomically.
type Updater interface {
	Update(ctx context.Context, fn func(*Session)) error
}

// Update applies fn to the stored session, atomically when the store supports it.
func Update(ctx context.Context, st Store, fn func(*Session)) error {
	if u, ok := st.(Updater); ok {
		return u.Update(ctx, fn)
	}
	s, err := st.Get(ctx)
	if err != nil {
		return err
	}
	fn(&s)
	return st.Set(ctx, s)
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	current Session
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns a copy of the current session.
func (m *MemoryStore) Get(_ context.Context) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.current), nil
}

// Set replaces the session.
func (m *MemoryStore) Set(_ context.Context, s Session) error {
	m.mu.Lock()
	m.current = clone(s)
	m.mu.Unlock()
	metrics.RecordSessionWrite("memory", "set")
	return nil
}

// Clear removes all session data.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	m.current = Session{}
	m.mu.Unlock()
	metrics.RecordSessionWrite("memory", "clear")
	return nil
}

// Update applies fn under the write lock.
func (m *MemoryStore) Update(_ context.Context, fn func(*Session)) error {
	m.mu.Lock()
	s := clone(m.current)
	fn(&s)
	m.current = s
	m.mu.Unlock()
	metrics.RecordSessionWrite("memory", "set")
	return nil
}

func clone(s Session) Session {
	if s.User != nil {
		s.User = append(json.RawMessage(nil), s.User...)
	}
	return s
}
