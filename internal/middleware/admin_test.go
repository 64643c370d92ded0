package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdellahBM/orema-camp/internal/models"
	"github.com/AbdellahBM/orema-camp/internal/repository"
	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
)

type authorizerStub struct{ tokens []string }

func (s *authorizerStub) Authorize(ctx context.Context, token string) (*models.Identity, error) {
	s.tokens = append(s.tokens, token)
	switch token {
	case "":
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Unauthorized - No access token")
	case "admin":
		return &models.Identity{UserID: "u-1", Email: "khouloud@orema.com"}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrForbidden, "Access denied")
}

func adminRouter(auth adminAuthorizer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AdminAuth(auth), func(c *gin.Context) {
		session, ok := repository.SessionFrom(c.Request.Context())
		ident := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"email": ident.Email, "session": ok, "token": session.AccessToken})
	})
	return r
}

func TestAdminAuthSetsIdentityAndSession(t *testing.T) {
	auth := &authorizerStub{}
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "bearer admin")
	w := httptest.NewRecorder()
	adminRouter(auth).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"khouloud@orema.com","session":true,"token":"admin"}`, w.Body.String())
}

func TestAdminAuthRejects(t *testing.T) {
	cases := map[string]int{
		"":             http.StatusUnauthorized,
		"Basic admin":  http.StatusUnauthorized,
		"Bearer other": http.StatusForbidden,
	}
	for header, status := range cases {
		auth := &authorizerStub{}
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		adminRouter(auth).ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, header)
	}
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", BearerToken(c))
	c.Request.Header.Set("Authorization", "Bearer  abc ")
	assert.Equal(t, "abc", BearerToken(c))
	assert.Nil(t, IdentityFrom(c))
}
