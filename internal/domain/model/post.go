package model

import "strings"

// Post is a news item. Author, likes and creation time are server-set.
type Post struct {
	ID          int64  `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublished bool   `json:"is_published"`
	ImageURL    string `json:"image_url,omitempty"`

	AuthorEmail string `json:"author_email,omitempty"`
	LikeCount   int    `json:"like_count,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// PostInput is the client-writable subset of a post.
type PostInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublished bool   `json:"is_published"`
}

// NewPostInput returns the empty form, published by default.
func NewPostInput() PostInput { return PostInput{IsPublished: true} }

// Input extracts the writable fields.
func (p Post) Input() PostInput {
	return PostInput{Title: p.Title, Description: p.Description, IsPublished: p.IsPublished}
}

// Validate checks the content.
func (p PostInput) Validate() error {
	if strings.TrimSpace(p.Description) == "" {
		return &ValidationError{Message: "Content is required", Fields: []string{"description"}}
	}
	return nil
}
