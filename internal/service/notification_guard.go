package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationGuard admits one in-flight notification per registration.
type NotificationGuard interface {
	// Acquire returns a release func when the caller may proceed, or ok=false
	// when another send for id is already running.
	Acquire(ctx context.Context, id string) (release func(), ok bool)
}

// LocalGuard is an in-process NotificationGuard.
type LocalGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{inFlight: make(map[string]struct{})}
}

func (g *LocalGuard) Acquire(_ context.Context, id string) (func(), bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[id]; busy {
		return nil, false
	}
	g.inFlight[id] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.inFlight, id)
		g.mu.Unlock()
	}, true
}

type lockStore interface {
	Enabled() bool
	Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, owner string) error
}

// RedisGuard shares the in-flight set across API instances through Redis.
// It falls back to an in-process guard when Redis is unavailable.
type RedisGuard struct {
	store    lockStore
	ttl      time.Duration
	fallback *LocalGuard
	logger   *zap.Logger
}

func NewRedisGuard(store lockStore, ttl time.Duration, logger *zap.Logger) *RedisGuard {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisGuard{store: store, ttl: ttl, fallback: NewLocalGuard(), logger: logger}
}

func (g *RedisGuard) Acquire(ctx context.Context, id string) (func(), bool) {
	if g.store == nil || !g.store.Enabled() {
		return g.fallback.Acquire(ctx, id)
	}
	key := "notify:" + id
	owner := uuid.NewString()
	ok, err := g.store.Acquire(ctx, key, owner, g.ttl)
	if err != nil {
		g.logger.Warn("notification guard unavailable, using local guard", zap.String("registration_id", id), zap.Error(err))
		return g.fallback.Acquire(ctx, id)
	}
	if !ok {
		return nil, false
	}
	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := g.store.Release(releaseCtx, key, owner); err != nil {
			g.logger.Warn("release notification guard", zap.String("registration_id", id), zap.Error(err))
		}
	}, true
}
