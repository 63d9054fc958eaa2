// Package model contains the records exchanged verbatim with the academy backend.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number is a numeric field the backend may send as a JSON number or a decimal string.
// Empty and null decode to zero.
type Number float64

// UnmarshalJSON accepts 12.5, "12.5", "" and null.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return n.parse(s)
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNumber, err)
	}
	*n = Number(f)
	return nil
}

func (n *Number) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	*n = Number(f)
	return nil
}

// ParseNumber reads operator input such as "2500" or "2500.00".
func ParseNumber(s string) (Number, error) {
	var n Number
	err := n.parse(s)
	return n, err
}

// String formats without trailing zeros.
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}
