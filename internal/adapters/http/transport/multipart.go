package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/okian/befa-admin/pkg/metrics"
)

// UploadField is the multipart field name every upload endpoint expects.
const UploadField = "file"

// File is one binary payload for a multipart upload.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// Size returns the payload length in bytes.
func (f File) Size() int { return len(f.Content) }

// ReadFile loads a local file and guesses its content type.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	return NewFile(filepath.Base(path), data), nil
}

// NewFile builds a File, detecting the content type from the name then the bytes.
func NewFile(name string, data []byte) File {
	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return File{Name: name, ContentType: ct, Content: data}
}

// Upload POSTs file as multipart form data under UploadField and decodes the reply into out.
// The Content-Type header, boundary included, comes from the multipart writer.
func (c *Client) Upload(ctx context.Context, path string, file File, out any, opts ...RequestOption) error {
	body, contentType, err := encodeMultipart(file)
	if err != nil {
		return &Error{Message: fmt.Sprintf("encode upload: %v", err), Err: errors.Join(ErrEncode, err)}
	}

	err = c.send(ctx, http.MethodPost, path, body, contentType, out, nil, c.requestOptions(opts))
	outcome := "ok"
	var te *Error
	if errors.As(err, &te) {
		outcome = string(te.Class())
	}
	metrics.RecordUpload(routeLabel(path), outcome, file.Size())
	return err
}

func encodeMultipart(file File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := file.Name
	if name == "" {
		name = "upload"
	}
	ct := file.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     UploadField,
		"filename": name,
	}))
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
