package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// CatalogCache is a read-through cache for catalog list responses. The
// catalog is nearly static, so even a short TTL absorbs most browse
// traffic. A nil *CatalogCache is valid and disables caching.
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCatalogCache connects to Redis, or returns (nil, nil) when no URL is
// configured so callers can wire the cache unconditionally.
func NewCatalogCache(ctx context.Context, redisURL string, ttl time.Duration) (*CatalogCache, error) {
	if redisURL == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	log.Printf("Redis connected: catalog cache ttl=%s", ttl)
	return &CatalogCache{rdb: rdb, ttl: ttl}, nil
}

func (c *CatalogCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// Get loads a cached value into v. Returns false on miss, disabled cache,
// or any Redis error; the caller falls through to the store either way.
func (c *CatalogCache) Get(ctx context.Context, key string, v interface{}) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// Set stores v under key for the cache TTL. Failures are logged and
// swallowed: the cache is an optimization, never a dependency.
func (c *CatalogCache) Set(ctx context.Context, key string, v interface{}) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Printf("[CatalogCache] set key=%s error=%v", key, err)
	}
}

// Invalidate removes all keys under prefix after a catalog write.
func (c *CatalogCache) Invalidate(ctx context.Context, prefix string) {
	if c == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("[CatalogCache] del key=%s error=%v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("[CatalogCache] invalidate prefix=%s error=%v", prefix, err)
	}
}
