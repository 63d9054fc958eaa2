package state

import "errors"

// ErrUnknownPolicy is returned by ParseStalePolicy.
var ErrUnknownPolicy = errors.New("unknown stale policy")

// errAborted is recorded when a fetch or action panics instead of returning.
var errAborted = errors.New("request aborted")

type httpStatuser interface {
	HTTPStatus() int
}

// statusOf returns the HTTP status carried by err, or zero.
func statusOf(err error) int {
	var s httpStatuser
	if errors.As(err, &s) {
		return s.HTTPStatus()
	}
	return 0
}

func messageOf(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Something went wrong"
}
