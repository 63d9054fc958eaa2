package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// FallbackMessage is used when neither the backend nor the transport say anything useful.
const FallbackMessage = "Something went wrong"

// ForbiddenMessage is the notification shown on 403.
const ForbiddenMessage = "Admin access required"

// Class groups failures by how callers should react.
type Class string

// Error classes.
const (
	ClassConnectivity    Class = "connectivity"
	ClassUnauthenticated Class = "unauthenticated"
	ClassForbidden       Class = "forbidden"
	ClassClient          Class = "client"
	ClassServer          Class = "server"
)

// Sentinel errors matched by errors.Is against an *Error.
var (
	ErrOffline         = errors.New("backend unreachable")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrClient          = errors.New("request rejected")
	ErrServer          = errors.New("server error")
	ErrEncode          = errors.New("encode request")
	ErrDecode          = errors.New("decode response")
)

// Error is the uniform failure shape: {message, status?, data?}.
// Status is zero when no HTTP response was received.
type Error struct {
	Message string
	Status  int
	Data    json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return FallbackMessage
	}
	return e.Message
}

// Unwrap returns the underlying transport error, if any.
func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus returns the response status, or zero for connectivity failures.
func (e *Error) HTTPStatus() int { return e.Status }

// Class classifies the failure.
func (e *Error) Class() Class {
	switch {
	case e.Status == 0:
		return ClassConnectivity
	case e.Status == http.StatusUnauthorized:
		return ClassUnauthenticated
	case e.Status == http.StatusForbidden:
		return ClassForbidden
	case e.Status >= http.StatusInternalServerError:
		return ClassServer
	default:
		return ClassClient
	}
}

// Is maps the error class onto the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrOffline:
		return e.Class() == ClassConnectivity
	case ErrUnauthenticated:
		return e.Class() == ClassUnauthenticated
	case ErrForbidden:
		return e.Class() == ClassForbidden
	case ErrClient:
		return e.Class() == ClassClient
	case ErrServer:
		return e.Class() == ClassServer
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or zero.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// MessageOf returns the user-facing message for err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}

// backendMessage holds the fields the backend uses to explain a failure.
type backendMessage struct {
	Error   any `json:"error"`
	Detail  any `json:"detail"`
	Message any `json:"message"`
}

// pickMessage chooses by priority: error, detail, message, transport text, fallback.
func pickMessage(data []byte, transportText string) string {
	var bm backendMessage
	if len(data) > 0 && json.Unmarshal(data, &bm) == nil {
		for _, v := range []any{bm.Error, bm.Detail, bm.Message} {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	if transportText != "" {
		return transportText
	}
	return FallbackMessage
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// newStatusError normalizes a non-2xx response.
func newStatusError(status int, body []byte) *Error {
	e := &Error{
		Status:  status,
		Message: pickMessage(body, fmt.Sprintf("Request failed with status code %d", status)),
	}
	if json.Valid(body) {
		e.Data = json.RawMessage(body)
	}
	return e
}

// newConnectivityError normalizes a failure with no response.
func newConnectivityError(err error, text string) *Error {
	if text == "" {
		text = "Network Error"
	}
	return &Error{Message: text, Err: err}
}

// getErrorSeverity returns the metric severity for an error class.
func getErrorSeverity(c Class) string {
	switch c {
	case ClassServer, ClassConnectivity:
		return "high"
	case ClassUnauthenticated, ClassForbidden:
		return "medium"
	default:
		return "low"
	}
}
