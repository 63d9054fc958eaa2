package model

import "errors"

var (
	// ErrInvalidNumber is returned when a numeric field holds non-numeric text.
	ErrInvalidNumber = errors.New("invalid number")
	// ErrRequired is returned by presence checks.
	ErrRequired = errors.New("required fields missing")
	// ErrInvalidStatus is returned for an enum value outside its set.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidExtraction is returned when an extraction cannot be applied to a player.
	ErrInvalidExtraction = errors.New("invalid extraction")
)
