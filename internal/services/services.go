// Package services holds what every resource service shares. Each resource
// lives in its own subpackage and performs exactly one transport call per method.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/befa-admin/internal/adapters/http/transport"
)

// Transport is the subset of *transport.Client the services use.
type Transport interface {
	Do(ctx context.Context, method, path string, body, out any, opts ...transport.RequestOption) error
	Upload(ctx context.Context, path string, file transport.File, out any, opts ...transport.RequestOption) error
	Stream(ctx context.Context, path string, w io.Writer, opts ...transport.RequestOption) error
	URL(path string) string
}

var (
	// ErrNotImage rejects non-image uploads before any request is made.
	ErrNotImage = errors.New("file is not an image")
	// ErrNotPDF rejects non-PDF extraction input before any request is made.
	ErrNotPDF = errors.New("file is not a PDF")
)

// List GETs path and normalizes either list shape. Items that do not fit T fail the call.
func List[T any](ctx context.Context, t Transport, path string, opts ...transport.RequestOption) ([]T, error) {
	var raw json.RawMessage
	if err := t.Do(ctx, "GET", path, nil, &raw, opts...); err != nil {
		return nil, err
	}
	return transport.DecodeList[T](raw)
}

// RequireImage checks the content type is image/*.
func RequireImage(f transport.File) error {
	if !strings.HasPrefix(f.ContentType, "image/") {
		return fmt.Errorf("%w: %s (%s)", ErrNotImage, f.Name, f.ContentType)
	}
	return nil
}

// RequirePDF checks the content type is application/pdf.
func RequirePDF(f transport.File) error {
	if f.ContentType != "application/pdf" {
		return fmt.Errorf("%w: %s (%s)", ErrNotPDF, f.Name, f.ContentType)
	}
	return nil
}
