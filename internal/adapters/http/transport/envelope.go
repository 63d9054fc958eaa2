package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
)

// DecodeList accepts a bare array or a paginated {"count", "results"} envelope.
// Bodies of neither shape yield an empty list. A recognized shape whose items
// do not fit T is an *Error wrapping ErrDecode.
func DecodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return []T{}, nil
	}
	switch trimmed[0] {
	case '[':
		return decodeItems[T](trimmed)
	case '{':
		var env map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, listDecodeError(err)
		}
		results, ok := env["results"]
		if !ok {
			return []T{}, nil
		}
		if bytes.Equal(bytes.TrimSpace(results), []byte("null")) {
			return []T{}, nil
		}
		return decodeItems[T](results)
	}
	return []T{}, nil
}

func decodeItems[T any](raw json.RawMessage) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, listDecodeError(err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// listDecodeError carries a 200 status: the response arrived, its body did not fit.
func listDecodeError(err error) *Error {
	return &Error{
		Message: "invalid list response",
		Status:  http.StatusOK,
		Err:     errors.Join(ErrDecode, err),
	}
}
