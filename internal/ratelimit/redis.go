package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces limiter keys in Redis.
const keyPrefix = "docdrop:ratelimit:"

// Redis is a fixed-window limiter shared across process instances.
// The counter key expires with the window, so a fresh window starts
// automatically on the first increment after expiry.
type Redis struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

func NewRedis(rdb *redis.Client, max int, window time.Duration) *Redis {
	return &Redis{rdb: rdb, max: max, window: window}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := keyPrefix + key

	n, err := r.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := r.rdb.Expire(ctx, k, r.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	return n <= int64(r.max), nil
}
