// Package app wires configuration, the session store, the transport, the
// resource services and the query hooks into one admin client.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/okian/befa-admin/internal/adapters/http/transport"
	"github.com/okian/befa-admin/internal/app/hooks"
	"github.com/okian/befa-admin/internal/app/state"
	"github.com/okian/befa-admin/internal/config"
	"github.com/okian/befa-admin/internal/services/auth"
	"github.com/okian/befa-admin/internal/services/content"
	"github.com/okian/befa-admin/internal/services/dashboard"
	"github.com/okian/befa-admin/internal/services/players"
	"github.com/okian/befa-admin/internal/services/schedule"
	"github.com/okian/befa-admin/internal/services/store"
	"github.com/okian/befa-admin/internal/services/upload"
	"github.com/okian/befa-admin/internal/session"
	"github.com/okian/befa-admin/pkg/logger"
	"github.com/okian/befa-admin/pkg/metrics"
)

// ErrOpenSessions wraps failures opening the configured session backend.
var ErrOpenSessions = errors.New("open session store")

// Navigator is the shell the client runs in. Location names the current view;
// OnUnauthenticated is called after a 401 evicted the session.
type Navigator interface {
	Location() string
	OnUnauthenticated(ctx context.Context)
}

// App is the assembled client.
type App struct {
	Config   *config.Config
	Sessions session.Store
	Client   *transport.Client
	Auth     *auth.Service
	Services hooks.Services
	Hooks    *hooks.Hooks

	logger     logger.Logger
	navigator  Navigator
	notifier   transport.Notifier
	httpClient *http.Client
	closeOnce  sync.Once
	closers    []io.Closer
}

// Option applies a configuration option to the App.
type Option func(*App)

// WithLogger sets the logger shared by every layer.
func WithLogger(l logger.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithNavigator connects 401 handling to the shell.
func WithNavigator(n Navigator) Option {
	return func(a *App) {
		a.navigator = n
	}
}

// WithNotifier sets where 403 and 5xx notifications go.
func WithNotifier(n transport.Notifier) Option {
	return func(a *App) {
		a.notifier = n
	}
}

// WithSessionStore bypasses the configured backend.
func WithSessionStore(s session.Store) Option {
	return func(a *App) {
		a.Sessions = s
	}
}

// WithHTTPClient supplies the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *App) {
		a.httpClient = hc
	}
}

// New assembles the client from cfg. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.New()
	}
	a := &App{Config: cfg, logger: logger.Nop()}
	for _, opt := range opts {
		opt(a)
	}

	policy, err := state.ParseStalePolicy(cfg.StalePolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	if a.Sessions == nil {
		st, err := OpenSessions(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.Sessions = st
		if c, ok := st.(io.Closer); ok {
			a.closers = append(a.closers, c)
		}
	}

	topts := []transport.Option{
		transport.WithTimeout(cfg.Timeout),
		transport.WithLogger(a.logger.Named("transport")),
	}
	if a.httpClient != nil {
		topts = append(topts, transport.WithHTTPClient(a.httpClient))
	}
	if a.notifier != nil {
		topts = append(topts, transport.WithNotifier(a.notifier))
	}
	if a.navigator != nil {
		topts = append(topts,
			transport.WithLocation(a.navigator.Location, transport.DefaultLoginView),
			transport.WithUnauthenticatedHandler(a.navigator.OnUnauthenticated),
		)
	}
	a.Client = transport.New(cfg.APIURL, a.Sessions, topts...)

	a.Auth = auth.NewService(a.Client, a.Sessions)
	a.Services = hooks.Services{
		Players:   players.NewService(a.Client, players.WithExtractTimeout(cfg.ExtractTimeout)),
		Schedule:  schedule.NewService(a.Client),
		Content:   content.NewService(a.Client),
		Store:     store.NewService(a.Client),
		Dashboard: dashboard.NewService(a.Client),
		Upload:    upload.NewService(a.Client),
	}
	a.Hooks = hooks.New(a.Services,
		state.WithStalePolicy(policy),
		state.WithLogger(a.logger.Named("state")),
	)

	a.logger.Debug(ctx, "admin client ready",
		logger.String("api_url", a.Client.BaseURL()),
		logger.String("session_backend", cfg.SessionBackend),
		logger.String("stale_policy", policy.String()),
	)
	return a, nil
}

// OpenSessions opens the session backend named by cfg.
func OpenSessions(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.SessionBackend {
	case config.SessionMemory:
		return session.NewMemoryStore(), nil
	case config.SessionFile, "":
		return session.NewFileStore(cfg.SessionPath), nil
	case config.SessionRedis:
		st, err := session.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOpenSessions, err)
		}
		return st, nil
	}
	return nil, fmt.Errorf("%w: unknown backend %q", ErrOpenSessions, cfg.SessionBackend)
}

// Close writes the metrics textfile, if configured, and releases the session backend.
func (a *App) Close() error {
	var errs []error
	a.closeOnce.Do(func() {
		if err := metrics.WriteTextfile(a.Config.MetricsFile); err != nil {
			errs = append(errs, err)
		}
		for _, c := range a.closers {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
