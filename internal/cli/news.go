package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/befa-admin/internal/adapters/http/transport"
	"github.com/okian/befa-admin/internal/app/forms"
	"github.com/okian/befa-admin/internal/app/hooks"
	"github.com/okian/befa-admin/internal/domain/model"
)

func runNews(ctx context.Context, s *Shell, args []string) error {
	return subcommand(ctx, s, "news", args, map[string]Handler{
		"list":   newsList,
		"add":    newsAdd,
		"edit":   newsEdit,
		"delete": newsDelete,
		"image":  newsImage,
	})
}

func newsList(ctx context.Context, s *Shell, _ []string) error {
	posts, err := settled(s.app.Hooks.Posts(ctx).Snapshot())
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Fprintln(s.out, "No posts yet")
		return nil
	}
	w := s.table()
	fmt.Fprintln(w, "ID\tDATE\tSTATE\tLIKES\tAUTHOR\tTITLE")
	for _, p := range posts {
		st := "draft"
		if p.IsPublished {
			st = "published"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n", p.ID, FormatDate(p.CreatedAt), st, p.LikeCount, orDash(p.AuthorEmail), orDash(p.Title))
	}
	return w.Flush()
}

func (s *Shell) submitPost(ctx context.Context, f *forms.PostForm, image string) error {
	if image != "" {
		img, err := transport.ReadFile(image)
		if err != nil {
			return err
		}
		if err := f.SetImage(img); err != nil {
			return err
		}
	}
	h := s.app.Hooks
	update := h.UpdatePost()
	attach := h.UploadPostImage()
	saved, err := f.Submit(ctx,
		h.CreatePost().Execute,
		func(ctx context.Context, id int64, in model.PostInput) (model.Post, error) {
			return update.Execute(ctx, hooks.Edit[model.PostInput]{ID: id, Value: in})
		},
		func(ctx context.Context, id int64, file transport.File) (model.Asset, error) {
			return attach.Execute(ctx, hooks.Attachment{ID: id, File: file})
		},
	)
	if err != nil && !errors.Is(err, forms.ErrImageNotSaved) {
		return err
	}
	fmt.Fprintf(s.out, "Saved post #%d\n", saved.ID)
	if err != nil {
		s.warn("%v", err)
	}
	return nil
}

func newsAdd(ctx context.Context, s *Shell, args []string) error {
	f := forms.NewPostForm()
	fs := s.flags("news add")
	fs.StringVar(&f.Input.Title, "title", "", "headline")
	fs.StringVar(&f.Input.Description, "content", "", "post body")
	draft := fs.Bool("draft", false, "save without publishing")
	image := fs.String("image", "", "path to a cover image")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	f.Input.IsPublished = !*draft
	return s.submitPost(ctx, f, *image)
}

func newsEdit(ctx context.Context, s *Shell, args []string) error {
	id, err := parseID(args, "post")
	if err != nil {
		return err
	}
	current, err := s.app.Services.Content.Get(ctx, id)
	if err != nil {
		return err
	}
	f := forms.EditPostForm(current)
	fs := s.flags("news edit")
	fs.StringVar(&f.Input.Title, "title", f.Input.Title, "headline")
	fs.StringVar(&f.Input.Description, "content", f.Input.Description, "post body")
	fs.BoolVar(&f.Input.IsPublished, "published", f.Input.IsPublished, "published state")
	image := fs.String("image", "", "path to a new cover image")
	if err := parseFlags(fs, args[1:]); err != nil {
		return err
	}
	return s.submitPost(ctx, f, *image)
}

func newsDelete(ctx context.Context, s *Shell, args []string) error {
	id, err := parseID(args, "post")
	if err != nil {
		return err
	}
	if _, err := s.app.Hooks.DeletePost().Execute(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Deleted post #%d\n", id)
	return nil
}

func newsImage(ctx context.Context, s *Shell, args []string) error {
	id, err := parseID(args, "post")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: news image ID PATH", ErrUsage)
	}
	img, err := transport.ReadFile(args[1])
	if err != nil {
		return err
	}
	asset, err := s.app.Hooks.UploadPostImage().Execute(ctx, hooks.Attachment{ID: id, File: img})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Image uploaded: %s\n", asset.Location())
	return nil
}
