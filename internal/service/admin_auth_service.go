package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AbdellahBM/orema-camp/internal/integration/identity"
	"github.com/AbdellahBM/orema-camp/internal/models"
	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
)

// Messages of the admin authorization contract.
const (
	MsgNoAccessToken = "Unauthorized - No access token"
	MsgInvalidToken  = "Unauthorized - Invalid token"
	MsgAccessDenied  = "Access denied"
)

// AdminAuthService resolves access tokens and enforces the administrator allow-list.
type AdminAuthService struct {
	resolver identity.Resolver
	allowed  map[string]struct{}
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewAdminAuthService builds the authorizer. Emails are compared case-insensitively.
func NewAdminAuthService(resolver identity.Resolver, adminEmails []string, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *AdminAuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			allowed[e] = struct{}{}
		}
	}
	return &AdminAuthService{resolver: resolver, allowed: allowed, cache: cache, cacheTTL: cacheTTL, logger: logger, now: time.Now}
}

// IsAdmin reports whether email is on the allow-list.
func (s *AdminAuthService) IsAdmin(email string) bool {
	_, ok := s.allowed[normalizeEmail(email)]
	return ok
}

// Authorize returns the caller identity when the token is valid and belongs to an administrator.
func (s *AdminAuthService) Authorize(ctx context.Context, accessToken string) (*models.Identity, error) {
	if accessToken == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, MsgNoAccessToken)
	}

	ident, err := s.resolve(ctx, accessToken)
	if err != nil {
		s.logger.Info("access token rejected", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, MsgInvalidToken)
	}
	if !s.IsAdmin(ident.Email) {
		s.logger.Warn("non-admin access attempt", zap.String("user_id", ident.UserID), zap.String("email", ident.Email))
		return nil, appErrors.Clone(appErrors.ErrForbidden, MsgAccessDenied)
	}
	return ident, nil
}

func (s *AdminAuthService) resolve(ctx context.Context, token string) (*models.Identity, error) {
	key := cacheKeyIdentityBase + tokenDigest(token)
	var cached models.Identity
	if s.cache.Get(ctx, key, &cached) {
		if !cached.Expired(s.now()) {
			return &cached, nil
		}
		s.cache.Invalidate(ctx, key)
		return nil, fmt.Errorf("%w: token expired", identity.ErrInvalidToken)
	}
	if s.resolver == nil {
		return nil, identity.ErrInvalidToken
	}
	ident, err := s.resolver.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if ttl := s.identityTTL(ident); ttl > 0 {
		s.cache.Set(ctx, key, ident, ttl)
	}
	return ident, nil
}

// identityTTL caps the cache lifetime at the token expiry. Identities with no
// known expiry are not cached.
func (s *AdminAuthService) identityTTL(ident *models.Identity) time.Duration {
	if ident.ExpiresAt == nil || s.cacheTTL <= 0 {
		return 0
	}
	ttl := s.cacheTTL
	if left := ident.ExpiresAt.Sub(s.now()); left < ttl {
		ttl = left
	}
	return ttl
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
