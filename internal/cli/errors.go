package cli

import "errors"

var (
	// ErrUsage is returned for malformed command lines.
	ErrUsage = errors.New("usage")
	// ErrUnknownRoute is returned for commands that do not exist.
	ErrUnknownRoute = errors.New("unknown command")
	// ErrSignInRequired is returned when a protected route runs without a session.
	ErrSignInRequired = errors.New("sign in required: run `befa-admin login`")
	// ErrOffline is returned when a view could not reach the backend.
	ErrOffline = errors.New("backend unreachable")
)
