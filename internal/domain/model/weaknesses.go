package model

import (
	"encoding/json"
	"slices"
)

// WeaknessOptions are the tags offered on the registration form.
var WeaknessOptions = []string{
	"Speed", "Skills", "Agility", "Positioning", "Shooting Ability",
	"Passes", "Match Fitness", "Heading", "Dribbling", "Tackling",
	"First Touch", "Vision", "Communication",
}

// Weaknesses is a set of free-text tags. Insertion order is kept for display only.
type Weaknesses []string

// NewWeaknesses builds a set, dropping blanks and duplicates.
func NewWeaknesses(tags ...string) Weaknesses {
	out := Weaknesses{}
	for _, t := range tags {
		if t == "" || out.Has(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Has reports membership.
func (w Weaknesses) Has(tag string) bool { return slices.Contains(w, tag) }

// Toggle returns a copy with tag removed if present, added otherwise.
func (w Weaknesses) Toggle(tag string) Weaknesses {
	if w.Has(tag) {
		out := make(Weaknesses, 0, len(w)-1)
		for _, t := range w {
			if t != tag {
				out = append(out, t)
			}
		}
		return out
	}
	out := slices.Clone(w)
	return append(out, tag)
}

// Equal compares membership, ignoring order.
func (w Weaknesses) Equal(other Weaknesses) bool {
	a, b := NewWeaknesses(w...), NewWeaknesses(other...)
	if len(a) != len(b) {
		return false
	}
	for _, t := range a {
		if !b.Has(t) {
			return false
		}
	}
	return true
}

// MarshalJSON always emits an array.
func (w Weaknesses) MarshalJSON() ([]byte, error) {
	if w == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(w))
}

// UnmarshalJSON collapses duplicates. Null decodes to an empty set.
func (w *Weaknesses) UnmarshalJSON(b []byte) error {
	var tags []string
	if err := json.Unmarshal(b, &tags); err != nil {
		return err
	}
	*w = NewWeaknesses(tags...)
	return nil
}
