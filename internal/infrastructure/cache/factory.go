package cache

import (
	"context"
	"time"

	"github.com/landscape/backend/internal/domain/shared"
	"github.com/landscape/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Backend bundles the cache and locker the application runs with
type Backend struct {
	Cache  shared.TTLCache
	Locker shared.Locker
	client *redis.Client
}

// Close releases the cache and the Redis connection, if any
func (b *Backend) Close() error {
	err := b.Cache.Close()
	if b.client != nil {
		if cerr := b.client.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Distributed reports whether the backend is shared across processes
func (b *Backend) Distributed() bool {
	return b.client != nil
}

// PingContext checks the Redis connection. The in-process backend is always up.
func (b *Backend) PingContext(ctx context.Context) error {
	if b.client == nil {
		return nil
	}
	return b.client.Ping(ctx).Err()
}

// NewBackend uses Redis when configured and reachable and falls back to
// in-process implementations otherwise.
func NewBackend(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Backend {
	if cfg.Enabled() {
		client, err := NewRedisClient(ctx, cfg)
		if err == nil {
			logger.Info("Using Redis cache and lock backend", zap.String("addr", cfg.Addr()))
			return &Backend{
				Cache:  NewRedisCache(client, "landscape:cache:"),
				Locker: NewRedisLocker(client, "landscape:lock:"),
				client: client,
			}
		}
		logger.Warn("Redis unavailable, falling back to in-process cache and locks. "+
			"Locks are not shared between instances.", zap.Error(err))
	}
	return &Backend{
		Cache:  NewMemoryCache(time.Minute),
		Locker: NewMemoryLocker(),
	}
}
