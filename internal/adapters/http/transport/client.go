// Package transport is the single configured HTTP client used to reach the
// academy backend. It attaches the bearer token, bounds every call with a
// timeout, normalizes failures into *Error and fires the 401/403/5xx side
// effects through injected collaborators.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/befa-admin/internal/session"
	"github.com/okian/befa-admin/pkg/logger"
	"github.com/okian/befa-admin/pkg/metrics"
)

// Defaults.
const (
	DefaultBaseURL   = "http://localhost:8000/api"
	DefaultTimeout   = 30 * time.Second
	DefaultLoginView = "login"

	maxBodyBytes    = 32 << 20
	headerRequestID = "X-Request-ID"
)

// Notifier receives non-blocking advisory notifications.
type Notifier interface {
	Forbidden(ctx context.Context, message string)
	ServerError(ctx context.Context, message string)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues JSON requests against the backend.
type Client struct {
	baseURL   string
	timeout   time.Duration
	http      httpDoer
	sessions  session.Store
	notifier  Notifier
	onUnauth  func(ctx context.Context)
	location  func() string
	loginView string
	logger    logger.Logger
	newID     func() string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient supplies the underlying client; its transport is instrumented.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = instrument(hc)
		}
	}
}

// WithNotifier sets the advisory notification sink.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithUnauthenticatedHandler sets the callback fired after a 401 evicts the session.
func WithUnauthenticatedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) {
		c.onUnauth = fn
	}
}

// WithLocation reports the current view so the 401 handler is skipped on the login view.
func WithLocation(fn func() string, loginView string) Option {
	return func(c *Client) {
		c.location = fn
		if loginView != "" {
			c.loginView = loginView
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New constructs a client for baseURL reading tokens from sessions.
func New(baseURL string, sessions session.Store, opts ...Option) *Client {
	if sessions == nil {
		sessions = session.NewMemoryStore()
	}
	c := &Client{
		baseURL:   normalizeBaseURL(baseURL),
		timeout:   DefaultTimeout,
		http:      instrument(&http.Client{}),
		sessions:  sessions,
		notifier:  logNotifier{},
		loginView: DefaultLoginView,
		logger:    logger.Nop(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if ln, ok := c.notifier.(logNotifier); ok {
		ln.logger = c.logger
		c.notifier = ln
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Sessions returns the session store the client reads tokens from.
func (c *Client) Sessions() session.Store { return c.sessions }

// URL joins path onto the base URL.
func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// RequestOption tweaks a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	timeout time.Duration
	query   url.Values
}

// Timeout overrides the default timeout for one call.
func Timeout(d time.Duration) RequestOption {
	return func(o *requestOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// Query attaches query parameters.
func Query(q url.Values) RequestOption {
	return func(o *requestOptions) {
		o.query = q
	}
}

func (c *Client) requestOptions(opts []RequestOption) requestOptions {
	ro := requestOptions{timeout: c.timeout}
	for _, opt := range opts {
		opt(&ro)
	}
	return ro
}

// Do sends body as JSON (nil for none) and decodes the response into out (nil to discard).
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: fmt.Sprintf("encode request body: %v", err), Err: errors.Join(ErrEncode, err)}
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, reader, contentType, out, nil, c.requestOptions(opts))
}

// Get is Do with GET and no body.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

// Post is Do with POST.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

// Patch is Do with PATCH.
func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPatch, path, body, out, opts...)
}

// Delete is Do with DELETE and no response body.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, opts...)
}

// Stream performs a GET and copies the raw body into w.
func (c *Client) Stream(ctx context.Context, path string, w io.Writer, opts ...RequestOption) error {
	return c.send(ctx, http.MethodGet, path, nil, "", nil, w, c.requestOptions(opts))
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any, sink io.Writer, ro requestOptions) error {
	ctx, cancel := context.WithTimeout(ctx, ro.timeout)
	defer cancel()

	target := c.URL(path)
	if len(ro.query) > 0 {
		target += "?" + ro.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return c.fail(ctx, method, path, &Error{Message: fmt.Sprintf("build request: %v", err), Err: errors.Join(ErrEncode, err)})
	}
	reqID := c.newID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, reqID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.authorize(ctx, req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		text := "Network Error"
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			text = fmt.Sprintf("timeout of %dms exceeded", ro.timeout.Milliseconds())
		}
		return c.fail(ctx, method, path, newConnectivityError(err, text))
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "backend response",
		logger.String("request_id", reqID),
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		return c.fail(ctx, method, path, newStatusError(resp.StatusCode, data))
	}

	if sink != nil {
		if _, err := io.Copy(sink, resp.Body); err != nil {
			return c.fail(ctx, method, path, newConnectivityError(err, fmt.Sprintf("read response: %v", err)))
		}
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		text := "Network Error"
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			text = fmt.Sprintf("timeout of %dms exceeded", ro.timeout.Milliseconds())
		}
		return c.fail(ctx, method, path, newConnectivityError(err, text))
	}
	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return c.fail(ctx, method, path, &Error{
			Message: fmt.Sprintf("invalid response from %s", path),
			Status:  resp.StatusCode,
			Err:     errors.Join(ErrDecode, err),
		})
	}
	return nil
}

// authorize attaches the bearer token when a session holds one.
func (c *Client) authorize(ctx context.Context, req *http.Request) {
	s, err := c.sessions.Get(ctx)
	if err != nil {
		c.logger.Warn(ctx, "session unreadable; sending request without token", logger.Error(err))
		return
	}
	if s.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	}
}

// fail records, fires side effects for, and returns a normalized error.
func (c *Client) fail(ctx context.Context, method, path string, e *Error) error {
	class := e.Class()
	metrics.RecordAPIError(string(class), getErrorSeverity(class))
	c.logger.Warn(ctx, "backend request failed",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", e.Status),
		logger.String("class", string(class)),
		logger.String("message", e.Message),
	)

	switch class {
	case ClassUnauthenticated:
		c.evict(ctx)
	case ClassForbidden:
		c.notifier.Forbidden(ctx, ForbiddenMessage)
	case ClassServer:
		c.notifier.ServerError(ctx, e.Message)
	}
	return e
}

// evict clears the session and, unless already on the login view, asks the shell to go there.
func (c *Client) evict(ctx context.Context) {
	// The request context may already be past its deadline; eviction must still happen.
	clearCtx := context.WithoutCancel(ctx)
	if err := c.sessions.Clear(clearCtx); err != nil {
		c.logger.Error(ctx, "failed to clear session after 401", logger.Error(err))
	}
	metrics.RecordSessionEviction()

	if c.location != nil && c.location() == c.loginView {
		return
	}
	if c.onUnauth != nil {
		c.onUnauth(clearCtx)
	}
}

func normalizeBaseURL(raw string) string {
	if strings.TrimSpace(raw) == "" {
		raw = DefaultBaseURL
	}
	return strings.TrimSuffix(strings.TrimSpace(raw), "/")
}

// logNotifier is the default notifier: it only logs.
type logNotifier struct {
	logger logger.Logger
}

func (n logNotifier) Forbidden(ctx context.Context, message string) {
	if n.logger != nil {
		n.logger.Warn(ctx, message)
	}
}

func (n logNotifier) ServerError(ctx context.Context, message string) {
	if n.logger != nil {
		n.logger.Error(ctx, message)
	}
}
