package models

import (
	"encoding/json"
	"time"
)

// Identity is the authenticated caller resolved from an access token.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	// ExpiresAt is the access token expiry; nil when the resolver cannot tell.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the token behind the identity has expired at now.
// An unknown expiry never counts as expired.
func (i Identity) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && !now.Before(*i.ExpiresAt)
}

// Session carries the caller's credential into the record store so
// statements run with the caller's database privileges.
type Session struct {
	AccessToken string
	Identity    Identity
}

// Claims returns the JSON published as request.jwt.claims.
func (s Session) Claims() string {
	role := s.Identity.Role
	if role == "" {
		role = "authenticated"
	}
	raw, _ := json.Marshal(map[string]string{
		"sub":   s.Identity.UserID,
		"email": s.Identity.Email,
		"role":  role,
	})
	return string(raw)
}
