package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Views the navigator can be on.
const (
	ViewLogin     = "login"
	ViewDashboard = "dashboard"
)

// Navigator tracks the current view for the transport's 401 handling.
type Navigator struct {
	mu   sync.Mutex
	view string
	w    io.Writer
}

// NewNavigator starts on the login view and reports redirects to w.
func NewNavigator(w io.Writer) *Navigator {
	return &Navigator{view: ViewLogin, w: w}
}

// Location returns the current view.
func (n *Navigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view
}

// Go switches view.
func (n *Navigator) Go(view string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.view = view
}

// OnUnauthenticated moves to the login view after the session was evicted.
func (n *Navigator) OnUnauthenticated(context.Context) {
	n.Go(ViewLogin)
	fmt.Fprintln(n.w, "Session expired. Sign in again with `befa-admin login`.")
}

// Toaster prints advisory notifications. It never blocks the caller's flow.
type Toaster struct {
	mu sync.Mutex
	w  io.Writer
}

// NewToaster writes notifications to w.
func NewToaster(w io.Writer) *Toaster { return &Toaster{w: w} }

// Forbidden reports a 403.
func (t *Toaster) Forbidden(_ context.Context, message string) { t.print("!", message) }

// ServerError reports a 5xx.
func (t *Toaster) ServerError(_ context.Context, message string) { t.print("x", message) }

func (t *Toaster) print(mark, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "[%s] %s\n", mark, message)
}
