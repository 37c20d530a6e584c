package cache

import (
	"context"
	"fmt"
	"time"

	"mix-and-munch/internal/infrastructure/config"
	"mix-and-munch/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// Store is a TTL key-value cache. Filter results and recipe details both
// live behind this contract, keyed by prefix, with values JSON-encoded by
// the caller.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Close() error
}

// FilterKey builds the cache key for a per-ingredient filter result.
func FilterKey(ingredient string) string {
	return fmt.Sprintf("filter:%s", ingredient)
}

// DetailKey builds the cache key for a recipe detail record.
func DetailKey(id string) string {
	return fmt.Sprintf("detail:%s", id)
}

// redisStore backs the cache with Redis.
type redisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg *config.CacheConfig) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisStore{client: client}, nil
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	return data, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}

// noopStore satisfies Store when caching is disabled.
type noopStore struct{}

// NewNoopStore returns a Store that never hits.
func NewNoopStore() Store {
	return noopStore{}
}

func (noopStore) Get(ctx context.Context, key string) (string, error) {
	return "", common.ErrCacheDisabled
}

func (noopStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return nil
}

func (noopStore) Close() error {
	return nil
}
