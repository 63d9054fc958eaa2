package model

// Asset is an upload descriptor. Generic uploads return {url, public_id};
// player photos return {image_url}.
type Asset struct {
	URL      string `json:"url,omitempty"`
	PublicID string `json:"public_id,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Location returns whichever URL the endpoint family populated.
func (a Asset) Location() string {
	if a.ImageURL != "" {
		return a.ImageURL
	}
	return a.URL
}

// ImageState says where an image currently lives.
type ImageState int

// Image states.
const (
	ImageEmpty ImageState = iota
	ImagePersisted
	ImageLocalOnly
)

func (s ImageState) String() string {
	switch s {
	case ImagePersisted:
		return "persisted"
	case ImageLocalOnly:
		return "local-only"
	default:
		return "empty"
	}
}

// ImageRef is an image attached to a form. A local-only ref holds the bytes
// that could not be uploaded so they can be retried after the record is saved.
type ImageRef struct {
	State       ImageState
	URL         string
	Name        string
	ContentType string
	Local       []byte
}

// PersistedImage refers to an uploaded image.
func PersistedImage(url string) ImageRef {
	if url == "" {
		return ImageRef{}
	}
	return ImageRef{State: ImagePersisted, URL: url}
}

// LocalImage holds bytes that are not on the backend yet.
func LocalImage(name, contentType string, data []byte) ImageRef {
	return ImageRef{State: ImageLocalOnly, Name: name, ContentType: contentType, Local: data}
}

// Persisted reports whether the ref points at the backend.
func (r ImageRef) Persisted() bool { return r.State == ImagePersisted }

// Pending reports whether bytes still need uploading.
func (r ImageRef) Pending() bool { return r.State == ImageLocalOnly && len(r.Local) > 0 }
