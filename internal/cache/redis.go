package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix   = "preview:"
	pingTimeout = 5 * time.Second
)

// RedisCache keeps previews in Redis under the "preview:" prefix.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache connects to addr and verifies the connection with a ping.
func NewRedisCache(ctx context.Context, addr, password string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis ping: %v", ErrCache, err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: redis get: %v", ErrCache, err)
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, keyPrefix+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", ErrCache, err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Open returns a RedisCache when redisAddr is set and reachable, and a
// MemoryCache otherwise. An unreachable Redis is logged, not returned.
func Open(ctx context.Context, redisAddr, password string, ttl time.Duration, logger *slog.Logger) Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if redisAddr != "" {
		c, err := NewRedisCache(ctx, redisAddr, password, ttl)
		if err == nil {
			logger.Info("cache connected", "backend", "redis", "addr", redisAddr)
			return c
		}
		logger.Warn("redis unavailable, using memory cache", "error", err)
	}
	return NewMemoryCache(ttl, DefaultMaxEntries)
}
