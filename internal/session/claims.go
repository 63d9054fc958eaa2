package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the access token payload the shell displays.
// The signature is not verified here; the backend remains the authority.
type Claims struct {
	Subject   string
	UserID    string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Expired reports whether the token carries an expiry that has passed.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims decodes the payload of an access token without verifying it.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrCorruptSession, err)
	}

	var c Claims
	if sub, err := mc.GetSubject(); err == nil {
		c.Subject = sub
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	switch v := mc["user_id"].(type) {
	case string:
		c.UserID = v
	case float64:
		c.UserID = fmt.Sprintf("%.0f", v)
	}
	return c, nil
}
