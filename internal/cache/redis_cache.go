package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

const dialCheckTimeout = 5 * time.Second

// NewRedisClient connects and pings; the caller owns the returned client.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	rc := cfg.RedisConnect
	addr := net.JoinHostPort(rc.Host, rc.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: rc.Username,
		Password: rc.Password,
		DB:       rc.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialCheckTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis %s unreachable: %w", addr, err)
	}

	slog.Info("Connected to Redis", slog.String("addr", addr), slog.Int("db", rc.DB))

	return client, nil
}

// redisCache stores JSON documents under plain string keys.
type redisCache struct {
	rdb        redis.Cmdable
	defaultTTL time.Duration
}

func NewRedisCache(client redis.Cmdable, cfg *config.CacheConfig) Cache {
	return &redisCache{rdb: client, defaultTTL: cfg.DefaultTTL}
}

func (c *redisCache) Get(ctx context.Context, key string, value any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()

	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("cache get %q: %w", key, err)
	}

	if err := json.Unmarshal(raw, value); err != nil {
		return false, fmt.Errorf("cache decode %q: %w", key, err)
	}

	return true, nil
}

// Set uses the configured default when ttl is not positive.
func (c *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %q: %w", key, err)
	}

	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}

	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete %v: %w", keys, err)
	}

	return nil
}
