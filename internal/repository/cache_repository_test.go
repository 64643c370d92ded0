package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdellahBM/orema-camp/internal/models"
	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
)

func newCacheRepo(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheRepository(client, nil), srv
}

func TestCacheRepositoryRoundTrip(t *testing.T) {
	repo, srv := newCacheRepo(t)
	ctx := context.Background()

	var stats models.RegistrationStats
	assert.ErrorIs(t, repo.Get(ctx, "stats", &stats), appErrors.ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "stats", models.RegistrationStats{Total: 3, New: 3}, time.Minute))
	require.NoError(t, repo.Get(ctx, "stats", &stats))
	assert.Equal(t, 3, stats.Total)
	assert.True(t, srv.Exists("orema:stats"))

	srv.FastForward(2 * time.Minute)
	assert.ErrorIs(t, repo.Get(ctx, "stats", &stats), appErrors.ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "stats", stats, 0))
	require.NoError(t, repo.Delete(ctx, "stats"))
	assert.False(t, srv.Exists("orema:stats"))
}

func TestCacheRepositoryAcquireRelease(t *testing.T) {
	repo, _ := newCacheRepo(t)
	ctx := context.Background()

	ok, err := repo.Acquire(ctx, "notify:r-1", "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Acquire(ctx, "notify:r-1", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Release(ctx, "notify:r-1", "b"))
	ok, err = repo.Acquire(ctx, "notify:r-1", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Release(ctx, "notify:r-1", "a"))
	ok, err = repo.Acquire(ctx, "notify:r-1", "b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCacheRepositoryDisabled(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()
	var v string

	assert.False(t, repo.Enabled())
	assert.ErrorIs(t, repo.Get(ctx, "k", &v), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "k", "v", time.Minute))
	_, err := repo.Acquire(ctx, "k", "o", time.Minute)
	assert.Error(t, err)
	assert.NoError(t, repo.Ping(ctx))
}
