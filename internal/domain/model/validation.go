package model

import (
	"maps"
	"slices"
	"strings"
)

// ValidationError is a failed presence check. Message is operator-facing.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string { return e.Message }

// Is matches ErrRequired.
func (e *ValidationError) Is(target error) bool { return target == ErrRequired }

func missing(fields map[string]string) []string {
	var out []string
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		if strings.TrimSpace(fields[k]) == "" {
			out = append(out, k)
		}
	}
	return out
}
