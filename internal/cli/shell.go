// Package cli is the operator shell: a router over the admin views with
// guest and protected route guards.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/okian/befa-admin/internal/app"
	"github.com/okian/befa-admin/internal/app/state"
)

// Guard decides who may open a route.
type Guard int

const (
	// Public routes are always reachable.
	Public Guard = iota
	// Guest routes redirect to the dashboard when a session exists.
	Guest
	// Protected routes require a session and redirect to login otherwise.
	Protected
)

// Handler runs one route.
type Handler func(ctx context.Context, s *Shell, args []string) error

// Route is one entry of the router table.
type Route struct {
	Name    string
	Usage   string
	Summary string
	Guard   Guard
	Run     Handler
}

// Shell dispatches command lines to views.
type Shell struct {
	app    *app.App
	nav    *Navigator
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	now    func() time.Time
	routes []Route
}

// Option configures a Shell.
type Option func(*Shell)

// WithInput sets where prompts read from.
func WithInput(r io.Reader) Option {
	return func(s *Shell) {
		if r != nil {
			s.in = r
		}
	}
}

// WithClock fixes the time used for ages.
func WithClock(now func() time.Time) Option {
	return func(s *Shell) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a shell over a, which must have been built with nav as its navigator.
func New(a *app.App, nav *Navigator, out, errOut io.Writer, opts ...Option) *Shell {
	s := &Shell{app: a, nav: nav, in: os.Stdin, out: out, errOut: errOut, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.routes = []Route{
		{Name: "login", Usage: "login [-email E] [-password P]", Summary: "sign in as an administrator", Guard: Guest, Run: runLogin},
		{Name: "logout", Usage: "logout", Summary: "sign out and forget the session", Guard: Public, Run: runLogout},
		{Name: "whoami", Usage: "whoami [-refresh]", Summary: "show the signed-in operator", Guard: Protected, Run: runWhoami},
		{Name: "refresh", Usage: "refresh", Summary: "exchange the refresh token for a new access token", Guard: Protected, Run: runRefresh},
		{Name: "dashboard", Usage: "dashboard", Summary: "headline numbers and recent registrations", Guard: Protected, Run: runDashboard},
		{Name: "players", Usage: "players list|show|register|edit|status|delete|photo|pdf|extract", Summary: "manage player registrations", Guard: Protected, Run: runPlayers},
		{Name: "schedule", Usage: "schedule list|add|edit|delete", Summary: "manage training, matches and meetings", Guard: Protected, Run: runSchedule},
		{Name: "news", Usage: "news list|add|edit|delete|image", Summary: "manage news posts", Guard: Protected, Run: runNews},
		{Name: "store", Usage: "store products|orders ...", Summary: "manage products and orders", Guard: Protected, Run: runStore},
	}
	return s
}

// Routes returns the router table.
func (s *Shell) Routes() []Route { return s.routes }

// Run dispatches one command line.
func (s *Shell) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		s.usage()
		return nil
	}
	r, ok := s.route(args[0])
	if !ok {
		s.usage()
		return fmt.Errorf("%w: %s", ErrUnknownRoute, args[0])
	}

	signedIn := s.app.Auth.IsAuthenticated(ctx)
	switch {
	case r.Guard == Guest && signedIn:
		fmt.Fprintln(s.out, "Already signed in.")
		dash, _ := s.route(ViewDashboard)
		return s.open(ctx, dash, nil)
	case r.Guard == Protected && !signedIn:
		s.nav.Go(ViewLogin)
		return ErrSignInRequired
	}
	return s.open(ctx, r, args[1:])
}

func (s *Shell) open(ctx context.Context, r Route, args []string) error {
	s.nav.Go(r.Name)
	return r.Run(ctx, s, args)
}

func (s *Shell) route(name string) (Route, bool) {
	for _, r := range s.routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

func (s *Shell) usage() {
	fmt.Fprintln(s.out, "BEFA academy admin")
	fmt.Fprintln(s.out)
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, r := range s.routes {
		fmt.Fprintf(w, "  %s\t%s\n", r.Usage, r.Summary)
	}
	_ = w.Flush()
}

// Navigator returns the shell's navigator.
func (s *Shell) Navigator() *Navigator { return s.nav }

func (s *Shell) table() *tabwriter.Writer {
	return tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
}

func (s *Shell) warn(format string, args ...any) {
	fmt.Fprintf(s.errOut, "warning: "+format+"\n", args...)
}

func (s *Shell) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(s.errOut)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUsage, fs.Name(), err)
	}
	return nil
}

// subcommand runs the handler named by args[0] out of table.
func subcommand(ctx context.Context, s *Shell, group string, args []string, table map[string]Handler) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: %s needs a subcommand (%s)", ErrUsage, group, strings.Join(slices.Sorted(maps.Keys(table)), ", "))
	}
	h, ok := table[args[0]]
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrUnknownRoute, group, args[0])
	}
	return h(ctx, s, args[1:])
}

func parseID(args []string, what string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: missing %s id", ErrUsage, what)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s id %q", ErrUsage, what, args[0])
	}
	return id, nil
}

// settled turns a finished query snapshot into data or an error.
func settled[T any](snap state.Snapshot[T]) (T, error) {
	switch {
	case snap.Offline:
		if snap.Cause != nil {
			return snap.Data, errors.Join(ErrOffline, snap.Cause)
		}
		return snap.Data, ErrOffline
	case snap.Err != "":
		if snap.Cause != nil {
			return snap.Data, snap.Cause
		}
		return snap.Data, errors.New(snap.Err)
	}
	return snap.Data, nil
}
