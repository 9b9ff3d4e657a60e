package modules

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Constants for the module cache
const (
	defaultModuleTTL = 10 * time.Minute
	cacheKeyPrefix   = "viewmod:"
)

// Ensure CachedStore implements Store
var _ Store = (*CachedStore)(nil)

// CachedStore is a read-through Redis cache in front of a module store,
// shared across instances so each deployed module is fetched from object
// storage once per TTL rather than once per process. Redis failures degrade
// to the inner store; they never fail a fetch.
type CachedStore struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	// Stats for monitoring
	hits   int64
	misses int64
}

// CachedStoreOption is a functional option for configuring CachedStore
type CachedStoreOption func(*CachedStore)

// WithModuleTTL sets how long cached module payloads live
func WithModuleTTL(ttl time.Duration) CachedStoreOption {
	return func(c *CachedStore) {
		c.ttl = ttl
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) CachedStoreOption {
	return func(c *CachedStore) {
		c.logger = logger
	}
}

// NewCachedStore wraps inner with a Redis read-through cache.
func NewCachedStore(inner Store, client *redis.Client, opts ...CachedStoreOption) *CachedStore {
	c := &CachedStore{
		inner:  inner,
		client: client,
		ttl:    defaultModuleTTL,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the cached payload for ref, or reads through to the inner
// store and populates the cache.
func (c *CachedStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	key := cacheKeyPrefix + ref

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		atomic.AddInt64(&c.hits, 1)
		c.logger.Debug("module cache hit", zap.String("ref", ref))
		return data, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.logger.Warn("module cache read failed, falling through",
			zap.String("ref", ref),
			zap.Error(err))
	}

	atomic.AddInt64(&c.misses, 1)
	data, err = c.inner.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("module cache write failed",
			zap.String("ref", ref),
			zap.Error(err))
	}
	return data, nil
}

// Stats returns cache hit/miss counts
func (c *CachedStore) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}
