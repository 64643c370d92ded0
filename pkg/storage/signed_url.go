package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// SignedURLSigner issues short-lived HMAC tokens bound to a storage key.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns "<expiry>.<signature>" for key.
func (s *SignedURLSigner) Sign(key string) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrInvalidKey
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	return ts + "." + s.mac(key, ts), expiresAt, nil
}

// Verify checks that token was issued for key and has not expired.
func (s *SignedURLSigner) Verify(key, token string) error {
	ts, sig, ok := strings.Cut(token, ".")
	if !ok || key == "" || len(s.secret) == 0 {
		return ErrTokenInvalid
	}
	exp, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrTokenInvalid
	}
	if !hmac.Equal([]byte(s.mac(key, ts)), []byte(sig)) {
		return ErrTokenInvalid
	}
	if s.now().After(time.Unix(exp, 0)) {
		return ErrTokenExpired
	}
	return nil
}

func (s *SignedURLSigner) mac(key, ts string) string {
	m := hmac.New(sha256.New, s.secret)
	_, _ = m.Write([]byte(key + "|" + ts))
	return hex.EncodeToString(m.Sum(nil))
}
