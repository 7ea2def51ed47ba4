package coingecko

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guttosm/coinpulse/internal/logger"
)

// ErrCacheMiss is returned by a Store when the key is absent.
var ErrCacheMiss = errors.New("cache: key not found")

// Store is the subset of a key/value cache used by CachedFetcher.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisStore implements Store on top of go-redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client. Keys are stored as "<prefix>:<key>".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.wrapKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.wrapKey(key), value, ttl).Err()
}

func (s *RedisStore) wrapKey(key string) string {
	return s.prefix + ":" + key
}

// CachedFetcher serves responses from a Store and falls back to the wrapped
// Fetcher. Cache failures are logged and never fail a fetch.
type CachedFetcher struct {
	next  Fetcher
	store Store
	ttl   time.Duration
}

// NewCachedFetcher decorates next with store.
func NewCachedFetcher(next Fetcher, store Store, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{next: next, store: store, ttl: ttl}
}

func (c *CachedFetcher) Name() string { return c.next.Name() + "+cache" }

func (c *CachedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := cacheKey(url)

	body, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		logger.L().Debug().Str("key", key).Int("bytes", len(body)).Msg("cache hit")
		return body, nil
	case errors.Is(err, ErrCacheMiss):
		logger.L().Debug().Str("key", key).Msg("cache miss")
	default:
		logger.L().Warn().Err(err).Msg("cache read failed")
	}

	body, err = c.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, key, body, c.ttl); err != nil {
		logger.L().Warn().Err(err).Msg("cache write failed")
	}
	return body, nil
}

func cacheKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return "chart:" + hex.EncodeToString(sum[:])
}
