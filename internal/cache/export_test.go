package cache

import (
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

func NewRateLimiterAt(client *redis.Client, cfg *config.RateConfig, now time.Time) RateLimiter {
	return &redisRateLimiter{client: client, cfg: cfg, now: func() time.Time { return now }}
}
