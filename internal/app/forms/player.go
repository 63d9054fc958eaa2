// Package forms holds the page-local edit buffers that sit between views and hooks.
package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/okian/befa-admin/internal/adapters/http/transport"
	"github.com/okian/befa-admin/internal/domain/model"
	"github.com/okian/befa-admin/internal/services"
)

// UploadFunc stores an image and returns its descriptor.
type UploadFunc func(ctx context.Context, f transport.File) (model.Asset, error)

// AttachFunc stores an image against a saved record.
type AttachFunc func(ctx context.Context, id int64, f transport.File) (model.Asset, error)

// SaveFunc persists a player, creating or updating.
type SaveFunc func(ctx context.Context, p model.Player) (model.Player, error)

// ExtractFunc runs OCR on a registration PDF.
type ExtractFunc func(ctx context.Context, f transport.File) (model.Extraction, error)

// PlayerForm is the registration/edit buffer. Safe for concurrent use.
type PlayerForm struct {
	mu     sync.Mutex
	player model.Player
	photo  model.ImageRef
}

// NewPlayerForm starts an empty registration.
func NewPlayerForm() *PlayerForm {
	return &PlayerForm{player: model.NewPlayer()}
}

// EditPlayerForm starts from a saved player.
func EditPlayerForm(p model.Player) *PlayerForm {
	if p.Weaknesses == nil {
		p.Weaknesses = model.Weaknesses{}
	}
	return &PlayerForm{player: p, photo: model.PersistedImage(p.PlayerImage)}
}

// Player returns a copy of the buffered record.
func (f *PlayerForm) Player() model.Player {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.player
	p.Weaknesses = append(model.Weaknesses{}, f.player.Weaknesses...)
	return p
}

// Photo returns the attached image and where it lives.
func (f *PlayerForm) Photo() model.ImageRef {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.photo
}

// Set assigns one field by its wire name, e.g. Set("surname", "Okafor").
func (f *PlayerForm) Set(field string, value any) error {
	if !playerFields[field] || field == "id" {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidExtraction, err)
	}
	return f.Apply(model.Extraction{field: raw})
}

// Update edits the record in place.
func (f *PlayerForm) Update(fn func(*model.Player)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.player)
}

// ToggleWeakness adds or removes one tag.
func (f *PlayerForm) ToggleWeakness(tag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.player.Weaknesses = f.player.Weaknesses.Toggle(tag)
}

// Apply merges a partial form. Either every key applies or none does.
func (f *PlayerForm) Apply(ex model.Extraction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	merged, err := ex.ApplyTo(f.player)
	if err != nil {
		return err
	}
	f.player = merged
	if _, ok := ex["player_image"]; ok {
		f.photo = model.PersistedImage(merged.PlayerImage)
	}
	return nil
}

// Extract runs OCR on a PDF and merges the result. The form is untouched on failure.
func (f *PlayerForm) Extract(ctx context.Context, extract ExtractFunc, pdf transport.File) (model.Extraction, error) {
	ex, err := extract(ctx, pdf)
	if err != nil {
		return nil, err
	}
	if err := f.Apply(ex); err != nil {
		return nil, err
	}
	return ex, nil
}

// AttachPhoto uploads an image and points player_image at it. When the upload
// fails the bytes are kept as a local-only photo and ErrStoredLocally is returned.
func (f *PlayerForm) AttachPhoto(ctx context.Context, upload UploadFunc, img transport.File) (model.ImageRef, error) {
	if err := services.RequireImage(img); err != nil {
		return f.Photo(), err
	}
	asset, err := upload(ctx, img)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.photo = model.LocalImage(img.Name, img.ContentType, img.Content)
		return f.photo, fmt.Errorf("%w: %w", ErrStoredLocally, err)
	}
	f.photo = model.PersistedImage(asset.Location())
	f.player.PlayerImage = f.photo.URL
	return f.photo, nil
}

// ClearPhoto detaches the image.
func (f *PlayerForm) ClearPhoto() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photo = model.ImageRef{}
	f.player.PlayerImage = ""
}

// Validate runs the presence checks.
func (f *PlayerForm) Validate() error {
	return f.Player().Validate()
}

// Submit validates, saves, then uploads a local-only photo against the saved id.
// A failed photo upload still returns the saved player, with ErrPhotoNotSaved.
func (f *PlayerForm) Submit(ctx context.Context, save SaveFunc, attach AttachFunc) (model.Player, error) {
	p := f.Player()
	if err := p.Validate(); err != nil {
		return model.Player{}, err
	}
	saved, err := save(ctx, p)
	if err != nil {
		return model.Player{}, err
	}

	photo := f.Photo()
	if !photo.Pending() || attach == nil {
		f.reset(saved)
		return saved, nil
	}
	asset, err := attach(ctx, saved.ID, transport.File{Name: photo.Name, ContentType: photo.ContentType, Content: photo.Local})
	if err != nil {
		f.mu.Lock()
		f.player = saved
		f.mu.Unlock()
		return saved, errors.Join(ErrPhotoNotSaved, err)
	}
	saved.PlayerImage = asset.Location()
	f.reset(saved)
	return saved, nil
}

func (f *PlayerForm) reset(saved model.Player) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.player = saved
	f.photo = model.PersistedImage(saved.PlayerImage)
}

var playerFields = func() map[string]bool {
	raw, _ := json.Marshal(model.Player{ID: 1, Weight: 1, Height: 1, CreatedAt: "x"})
	fields := map[string]json.RawMessage{}
	_ = json.Unmarshal(raw, &fields)
	out := make(map[string]bool, len(fields))
	for k := range fields {
		out[k] = true
	}
	return out
}()
