package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/okian/befa-admin/pkg/metrics"
)

// File permission constants.
const (
	sessionFilePermission = 0o600
	sessionDirPermission  = 0o700
)

// FileStore persists the session as a JSON document on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by path. The file is created on first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (f *FileStore) Path() string { return f.path }

// Get reads the session; a missing file is an empty session.
func (f *FileStore) Get(_ context.Context) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

// Set writes the session atomically.
func (f *FileStore) Set(_ context.Context, s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(s); err != nil {
		return err
	}
	metrics.RecordSessionWrite("file", "set")
	return nil
}

// Clear removes the backing file.
func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	metrics.RecordSessionWrite("file", "clear")
	return nil
}

// Update reads, modifies and writes the session under one lock.
func (f *FileStore) Update(_ context.Context, fn func(*Session)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.read()
	if err != nil {
		return err
	}
	fn(&s)
	if err := f.write(s); err != nil {
		return err
	}
	metrics.RecordSessionWrite("file", "set")
	return nil
}

func (f *FileStore) read() (Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrCorruptSession, err)
	}
	return s, nil
}

func (f *FileStore) write(s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptSession, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), sessionDirPermission); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if err := tmp.Chmod(sessionFilePermission); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}
