package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const slugKeyPrefix = "slug:"

// SlugCache is a read-through cache for slug -> username resolution.
// Postgres stays the source of truth: every method is best-effort, and a
// Redis failure is logged and treated as a miss.
type SlugCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewSlugCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *SlugCache {
	return &SlugCache{rdb: rdb, ttl: ttl, logger: logger}
}

// Get returns the cached username for a slug, or "" on a miss.
func (c *SlugCache) Get(ctx context.Context, slug string) string {
	val, err := c.rdb.Get(ctx, slugKeyPrefix+slug).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("slug cache read failed", zap.Error(err))
		}
		return ""
	}
	return val
}

// Set records a slug binding. Slugs are immutable once registered, so the
// TTL exists only to bound memory, not for correctness.
func (c *SlugCache) Set(ctx context.Context, slug, username string) {
	if err := c.rdb.Set(ctx, slugKeyPrefix+slug, username, c.ttl).Err(); err != nil {
		c.logger.Warn("slug cache write failed", zap.Error(err))
	}
}
