// Package auth signs the operator in and out and keeps the session current.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/befa-admin/internal/adapters/http/endpoints"
	"github.com/okian/befa-admin/internal/domain/model"
	"github.com/okian/befa-admin/internal/services"
	"github.com/okian/befa-admin/internal/session"
)

var (
	// ErrNoRefreshToken is returned by Refresh when nobody is signed in.
	ErrNoRefreshToken = errors.New("no refresh token")
	// ErrPersistSession wraps session store failures after a successful call.
	ErrPersistSession = errors.New("persist session")
)

// Service wraps the auth endpoints and the session store.
type Service struct {
	t     services.Transport
	store session.Store
}

// NewService constructs a Service.
func NewService(t services.Transport, store session.Store) *Service {
	return &Service{t: t, store: store}
}

// Login exchanges credentials for tokens and persists them with the profile.
func (s *Service) Login(ctx context.Context, c model.Credentials) (model.LoginResult, error) {
	var res model.LoginResult
	if err := s.t.Do(ctx, http.MethodPost, endpoints.Login, c, &res); err != nil {
		return model.LoginResult{}, err
	}
	user, err := json.Marshal(res.User)
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("%w: %w", ErrPersistSession, err)
	}
	if err := s.store.Set(ctx, session.Session{AccessToken: res.Access, RefreshToken: res.Refresh, User: user}); err != nil {
		return model.LoginResult{}, fmt.Errorf("%w: %w", ErrPersistSession, err)
	}
	return res, nil
}

// Me fetches the profile and refreshes the cached copy.
func (s *Service) Me(ctx context.Context) (model.User, error) {
	var u model.User
	var raw json.RawMessage
	if err := s.t.Do(ctx, http.MethodGet, endpoints.Me, nil, &raw); err != nil {
		return model.User{}, err
	}
	if err := json.Unmarshal(raw, &u); err != nil {
		return model.User{}, fmt.Errorf("decode profile: %w", err)
	}
	if err := session.Update(ctx, s.store, func(sess *session.Session) { sess.User = raw }); err != nil {
		return u, fmt.Errorf("%w: %w", ErrPersistSession, err)
	}
	return u, nil
}

// Refresh trades the stored refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context) (string, error) {
	sess, err := s.store.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPersistSession, err)
	}
	if sess.RefreshToken == "" {
		return "", ErrNoRefreshToken
	}
	var res model.RefreshResult
	if err := s.t.Do(ctx, http.MethodPost, endpoints.Refresh, model.RefreshRequest{Refresh: sess.RefreshToken}, &res); err != nil {
		return "", err
	}
	err = session.Update(ctx, s.store, func(sess *session.Session) {
		sess.AccessToken = res.Access
		if res.Refresh != "" {
			sess.RefreshToken = res.Refresh
		}
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPersistSession, err)
	}
	return res.Access, nil
}

// Logout forgets the session.
func (s *Service) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// User returns the cached profile, if any.
func (s *Service) User(ctx context.Context) (model.User, bool) {
	sess, err := s.store.Get(ctx)
	if err != nil || len(sess.User) == 0 {
		return model.User{}, false
	}
	var u model.User
	if err := sess.DecodeUser(&u); err != nil {
		return model.User{}, false
	}
	return u, true
}

// IsAuthenticated reports whether an access token is stored.
func (s *Service) IsAuthenticated(ctx context.Context) bool {
	sess, err := s.store.Get(ctx)
	return err == nil && sess.Authenticated()
}

// Session returns the raw stored session.
func (s *Service) Session(ctx context.Context) (session.Session, error) {
	return s.store.Get(ctx)
}
