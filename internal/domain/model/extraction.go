package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Extraction is a partial player form produced by OCR. Only present keys are applied.
type Extraction map[string]json.RawMessage

// Keys lists the present fields in sorted order.
func (e Extraction) Keys() []string {
	return slices.Sorted(maps.Keys(e))
}

// ApplyTo returns p with every present key overwritten. p is untouched on error.
func (e Extraction) ApplyTo(p Player) (Player, error) {
	if len(e) == 0 {
		return p, nil
	}
	base, err := json.Marshal(p)
	if err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalidExtraction, err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalidExtraction, err)
	}
	// Server-owned identity never comes from a scanned form.
	id, hasID := fields["id"]
	maps.Copy(fields, e)
	if hasID {
		fields["id"] = id
	} else {
		delete(fields, "id")
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalidExtraction, err)
	}
	out := Player{}
	if err := json.Unmarshal(merged, &out); err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalidExtraction, err)
	}
	return out, nil
}
