package filestorage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// urlCache is the part of *redis.Client the signer needs
type urlCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedSigner reuses signed URLs from Redis so that reloading the admin list
// does not re-sign every object. Entries expire well before the link does.
type CachedSigner struct {
	next   URLSigner
	cache  urlCache
	prefix string
	logger zerolog.Logger
}

// NewCachedSigner wraps next with a Redis cache
func NewCachedSigner(next URLSigner, cache urlCache, logger zerolog.Logger) *CachedSigner {
	return &CachedSigner{
		next:   next,
		cache:  cache,
		prefix: "stepout:signed-url:",
		logger: logger,
	}
}

// SignedURL returns a cached link when one exists, otherwise signs and caches.
// Cache errors are logged and never fail the call.
func (c *CachedSigner) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	cacheKey := c.prefix + ttl.String() + ":" + key

	cached, err := c.cache.Get(ctx, cacheKey).Result()
	switch {
	case err == nil && cached != "":
		return cached, nil
	case err != nil && !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Str("key", key).Msg("Signed URL cache read failed")
	}

	signed, err := c.next.SignedURL(ctx, key, ttl)
	if err != nil {
		return "", err
	}

	if cacheTTL := ttl / 2; cacheTTL > 0 {
		if err := c.cache.Set(ctx, cacheKey, signed, cacheTTL).Err(); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("Signed URL cache write failed")
		}
	}
	return signed, nil
}
