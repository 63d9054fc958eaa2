package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/befa-admin/internal/app/forms"
	"github.com/okian/befa-admin/internal/domain/model"
)

// assignments collects repeated -set key=value flags.
type assignments [][2]string

func (a *assignments) String() string {
	parts := make([]string, 0, len(*a))
	for _, kv := range *a {
		parts = append(parts, kv[0]+"="+kv[1])
	}
	return strings.Join(parts, ",")
}

func (a *assignments) Set(v string) error {
	key, val, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	*a = append(*a, [2]string{strings.TrimSpace(key), val})
	return nil
}

// list collects a repeated string flag.
type list []string

func (l *list) String() string { return strings.Join(*l, ",") }

func (l *list) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// applyAssignments sets each field as text, retrying as a JSON literal for
// non-string fields such as weight or any_medical_problem.
func applyAssignments(f *forms.PlayerForm, as assignments) error {
	for _, kv := range as {
		err := f.Set(kv[0], kv[1])
		if errors.Is(err, model.ErrInvalidExtraction) {
			var v any
			if json.Unmarshal([]byte(kv[1]), &v) == nil {
				err = f.Set(kv[0], v)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}
