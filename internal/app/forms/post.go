package forms

import (
	"context"
	"errors"

	"github.com/okian/befa-admin/internal/adapters/http/transport"
	"github.com/okian/befa-admin/internal/domain/model"
	"github.com/okian/befa-admin/internal/services"
)

// PostForm buffers a news post and an optional cover image.
type PostForm struct {
	ID    int64
	Input model.PostInput
	Image *transport.File
}

// NewPostForm starts an empty, published post.
func NewPostForm() *PostForm { return &PostForm{Input: model.NewPostInput()} }

// EditPostForm starts from a saved post.
func EditPostForm(p model.Post) *PostForm { return &PostForm{ID: p.ID, Input: p.Input()} }

// SetImage selects a cover image.
func (f *PostForm) SetImage(img transport.File) error {
	if err := services.RequireImage(img); err != nil {
		return err
	}
	f.Image = &img
	return nil
}

// Submit validates, saves, then uploads the image. A failed image upload
// still returns the saved post, with ErrImageNotSaved.
func (f *PostForm) Submit(
	ctx context.Context,
	create func(context.Context, model.PostInput) (model.Post, error),
	update func(context.Context, int64, model.PostInput) (model.Post, error),
	attach AttachFunc,
) (model.Post, error) {
	if err := f.Input.Validate(); err != nil {
		return model.Post{}, err
	}
	var (
		saved model.Post
		err   error
	)
	if f.ID != 0 {
		saved, err = update(ctx, f.ID, f.Input)
	} else {
		saved, err = create(ctx, f.Input)
	}
	if err != nil {
		return model.Post{}, err
	}
	f.ID = saved.ID

	if f.Image == nil || saved.ID == 0 || attach == nil {
		return saved, nil
	}
	asset, err := attach(ctx, saved.ID, *f.Image)
	if err != nil {
		return saved, errors.Join(ErrImageNotSaved, err)
	}
	f.Image = nil
	saved.ImageURL = asset.Location()
	return saved, nil
}
