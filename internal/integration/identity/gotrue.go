package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AbdellahBM/orema-camp/internal/models"
	"github.com/AbdellahBM/orema-camp/pkg/middleware/requestid"
)

// GoTrueClient asks the auth backend's user endpoint who owns a token.
type GoTrueClient struct {
	baseURL string
	anonKey string
	http    *http.Client
	tracer  trace.Tracer
}

// NewGoTrueClient builds a client for the project at baseURL.
func NewGoTrueClient(baseURL, anonKey string, timeout time.Duration, httpClient *http.Client) *GoTrueClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &GoTrueClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    httpClient,
		tracer:  otel.Tracer("orema-camp/identity"),
	}
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Resolve calls GET /auth/v1/user with the token as bearer credential.
func (c *GoTrueClient) Resolve(ctx context.Context, accessToken string) (_ *models.Identity, err error) {
	ctx, span := c.tracer.Start(ctx, "identity.getUser")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if accessToken == "" {
		return nil, ErrInvalidToken
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build user request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetch user: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var u userResponse
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if u.ID == "" {
		return nil, ErrInvalidToken
	}
	return &models.Identity{UserID: u.ID, Email: u.Email, Role: u.Role, ExpiresAt: tokenExpiry(accessToken)}, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the auth
// server has already accepted the token.
func tokenExpiry(accessToken string) *time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil || claims.ExpiresAt == nil {
		return nil
	}
	exp := claims.ExpiresAt.Time
	return &exp
}
