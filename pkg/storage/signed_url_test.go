package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerSignAndVerify(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Sign("camp-registration-1700000000-ab12cd.jpg")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	require.NoError(t, signer.Verify("camp-registration-1700000000-ab12cd.jpg", token))
	require.ErrorIs(t, signer.Verify("other.jpg", token), ErrTokenInvalid)
	require.ErrorIs(t, signer.Verify("camp-registration-1700000000-ab12cd.jpg", "garbage"), ErrTokenInvalid)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return base }

	token, _, err := signer.Sign("photo.png")
	require.NoError(t, err)

	signer.now = func() time.Time { return base.Add(2 * time.Minute) }
	require.ErrorIs(t, signer.Verify("photo.png", token), ErrTokenExpired)
}

func TestSignedURLSignerRequiresSecret(t *testing.T) {
	_, _, err := NewSignedURLSigner("", time.Minute).Sign("photo.png")
	require.Error(t, err)
}
