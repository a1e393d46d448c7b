package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

type RateLimiter interface {
	// Allow records one attempt for key. When the attempt is over the limit it
	// reports how long until the oldest attempt leaves the window.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

type redisRateLimiter struct {
	client *redis.Client
	cfg    *config.RateConfig
	now    func() time.Time
}

func NewRateLimiter(client *redis.Client, cfg *config.RateConfig) RateLimiter {
	return &redisRateLimiter{client: client, cfg: cfg, now: time.Now}
}

/*
Attempts live in a sorted set scored by their time in milliseconds:

	checkout_attempts:<buyer>
	| score         | member              |
	| 1700000000000 | 1700000000000123456 |
	| 1700000020000 | 1700000020000654321 |

Entries older than the window are trimmed before counting, and the key
expires on its own once the buyer stops trying.
*/
func (r *redisRateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {

	now := r.now()
	windowStart := now.Add(-r.cfg.WindowSize).UnixMilli()

	pipe := r.client.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: strconv.FormatInt(now.UnixNano(), 10)})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, r.cfg.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("redis pipeline error for rate limit check: %w", err)
	}

	if count.Val() <= r.cfg.MaxAttempts {
		return true, 0, nil
	}

	// over the limit either way; without the oldest attempt the full window is the wait
	oldest, err := r.client.ZRangeWithScores(ctx, key, 0, 0).Result()
	if err != nil || len(oldest) == 0 {
		return false, r.cfg.WindowSize, nil
	}

	retryAfter := max(time.UnixMilli(int64(oldest[0].Score)).Add(r.cfg.WindowSize).Sub(now), 0)

	return false, retryAfter, nil
}
