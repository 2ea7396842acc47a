package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MansiJagta/echo-forge-create/platform/config"
	"github.com/MansiJagta/echo-forge-create/platform/logging"
)

const voicesKey = "provider:voices"

// Cache holds short-lived copies of provider responses. A nil *Cache is
// valid and behaves as a permanent miss, so callers need no enabled checks.
type Cache struct {
	client *redis.Client
}

// Connect dials redis. It returns nil when no address is configured or the
// server is unreachable; the service runs fine without a cache.
func Connect(cfg *config.Config) *Cache {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		logging.Warn("redis unreachable, voice cache disabled", "addr", cfg.RedisAddr, "error", err)
		return nil
	}

	logging.Info("connected to redis", "addr", cfg.RedisAddr)
	return &Cache{client: client}
}

func (c *Cache) VoiceCatalog(ctx context.Context) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, voicesKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) SetVoiceCatalog(ctx context.Context, data []byte, expiration time.Duration) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, voicesKey, data, expiration).Err(); err != nil {
		logging.Warn("caching voice catalog failed", "error", err)
	}
}

// InvalidateVoiceCatalog drops the cached catalog, e.g. after a voice is
// deleted upstream.
func (c *Cache) InvalidateVoiceCatalog(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, voicesKey).Err(); err != nil {
		logging.Warn("invalidating voice catalog failed", "error", err)
	}
}

func (c *Cache) Close() {
	if c == nil {
		return
	}
	if err := c.client.Close(); err != nil {
		logging.Warn("closing redis connection", "error", err)
	}
}
