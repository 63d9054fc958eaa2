package model

import "strings"

// User is the signed-in operator's profile.
type User struct {
	ID        int64  `json:"id,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsStaff   bool   `json:"is_staff,omitempty"`
}

// DisplayName falls back to the email.
func (u User) DisplayName() string {
	if n := strings.TrimSpace(u.FirstName + " " + u.LastName); n != "" {
		return n
	}
	return u.Email
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks both fields are present.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return &ValidationError{Message: "Please enter your email and password", Fields: missing(map[string]string{
			"email":    c.Email,
			"password": c.Password,
		})}
	}
	return nil
}

// LoginResult is the login response.
type LoginResult struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

// RefreshRequest is the token refresh body.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResult is the token refresh response. Refresh is set only when the backend rotates it.
type RefreshResult struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}
