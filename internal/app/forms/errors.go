package forms

import "errors"

var (
	// ErrUnknownField is returned when setting a field the player record does not have.
	ErrUnknownField = errors.New("unknown field")
	// ErrStoredLocally means the image upload failed and the bytes are held locally.
	ErrStoredLocally = errors.New("uploaded locally (backend unavailable)")
	// ErrPhotoNotSaved means the record was saved but its pending photo was not.
	ErrPhotoNotSaved = errors.New("player saved but photo upload failed")
	// ErrImageNotSaved means the post was saved but its image was not.
	ErrImageNotSaved = errors.New("post saved but image upload failed")
)
