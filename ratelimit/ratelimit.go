// Package ratelimit throttles the public write endpoints with a fixed-window
// counter kept in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rs/zerolog/log"
)

type Limiter interface {
	// Allow reports whether key may make another request in bucket.
	Allow(ctx context.Context, bucket, key string) (bool, error)
}

// counterStore is the part of the Redis client the limiter uses.
type counterStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

type RedisLimiter struct {
	rdb    counterStore
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(rdb counterStore, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: int64(limit), window: window, now: time.Now}
}

// New returns a Redis-backed limiter, or a limiter that allows everything
// when REDIS_ADDR is unset. The returned close func releases the client.
func New(cfg config.RateLimitConfig) (Limiter, func() error) {
	if cfg.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR not set, rate limiting disabled")
		return Noop{}, func() error { return nil }
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return NewRedisLimiter(rdb, cfg.Requests, cfg.Window), rdb.Close
}

// FormatKey names the counter for one client in the current window.
func FormatKey(bucket, key string, windowStart int64) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", bucket, key, windowStart)
}

func (l *RedisLimiter) Allow(ctx context.Context, bucket, key string) (bool, error) {
	windowStart := l.now().Truncate(l.window).Unix()
	redisKey := FormatKey(bucket, key, windowStart)

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		// Redis down: do not block visitors
		return true, err
	}

	// Set expiration on first increment
	if count == 1 {
		if err := l.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return count <= l.limit, fmt.Errorf("expire %s: %w", redisKey, err)
		}
	}

	return count <= l.limit, nil
}

// Noop allows every request.
type Noop struct{}

func (Noop) Allow(context.Context, string, string) (bool, error) {
	return true, nil
}
