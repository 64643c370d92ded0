package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AbdellahBM/orema-camp/internal/models"
	"github.com/AbdellahBM/orema-camp/internal/repository"
	"github.com/AbdellahBM/orema-camp/pkg/response"
)

// ContextIdentityKey is the gin context key storing the authorized administrator.
const ContextIdentityKey = "adminIdentity"

type adminAuthorizer interface {
	Authorize(ctx context.Context, accessToken string) (*models.Identity, error)
}

// AdminAuth requires a bearer token that resolves to an allow-listed administrator.
// The request context carries the caller session so store access runs under it.
func AdminAuth(auth adminAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		ident, err := auth.Authorize(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextIdentityKey, ident)
		ctx := repository.WithSession(c.Request.Context(), models.Session{AccessToken: token, Identity: *ident})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// BearerToken returns the token of an "Authorization: Bearer" header, or "".
func BearerToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// IdentityFrom returns the administrator set by AdminAuth.
func IdentityFrom(c *gin.Context) *models.Identity {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil
	}
	ident, _ := value.(*models.Identity)
	return ident
}
