// Package identity resolves admin access tokens into identities.
package identity

import (
	"context"
	"errors"

	"github.com/AbdellahBM/orema-camp/internal/models"
)

// ErrInvalidToken is returned for missing, malformed, expired or rejected tokens.
var ErrInvalidToken = errors.New("invalid access token")

// Resolver turns an access token into the identity it was issued to.
type Resolver interface {
	Resolve(ctx context.Context, accessToken string) (*models.Identity, error)
}
