package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "wayfarer:search:"

// Cache decorates a Searcher with a Redis-backed result cache. Redis
// failures fall through to the wrapped searcher.
type Cache struct {
	next   Searcher
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache wraps next with a cache stored in client.
func NewCache(next Searcher, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With("system", "search-cache"),
	}
}

func (c *Cache) Search(ctx context.Context, query string) ([]Result, error) {
	key := cacheKey(query)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var results []Result
		if err := json.Unmarshal(data, &results); err == nil {
			return results, nil
		}
		c.logger.WarnContext(ctx, "discarding corrupt cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "cache read failed", "error", err)
	}

	results, err := c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(results); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "cache write failed", "error", err)
		}
	}

	return results, nil
}

// Ping reports whether Redis answers. The cache works without it, so a
// failed ping degrades readiness rather than search.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the Redis connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

func cacheKey(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return cachePrefix + hex.EncodeToString(sum[:])
}
