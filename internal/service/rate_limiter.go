package service

import (
	"context"
	"fmt"
	"time"

	"github.com/neuralfit/backend/pkg/database"
	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces sliding-window limits backed by Redis sorted sets.
// One set per key, scored by request timestamp.
type RateLimiter struct {
	redis *database.Redis
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redis *database.Redis) *RateLimiter {
	return &RateLimiter{redis: redis}
}

func rateLimitKey(key string) string {
	return "ratelimit:" + key
}

// Allow records the request and reports whether it fits the window. When the
// limit is hit the error carries the time until the window frees up.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	redisKey := rateLimitKey(key)

	count, err := r.pruneAndCount(ctx, redisKey, now.Add(-window))
	if err != nil {
		return false, err
	}

	if count >= int64(limit) {
		oldest, err := r.redis.Client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
		if err == nil && len(oldest) > 0 {
			oldestTime := time.Unix(int64(oldest[0].Score), 0)
			remaining := window - time.Since(oldestTime)
			return false, fmt.Errorf("rate limit exceeded, try again in %v", remaining.Round(time.Second))
		}
		return false, fmt.Errorf("rate limit exceeded")
	}

	member := fmt.Sprintf("%d-%d", now.UnixNano(), now.Unix())
	if err := r.redis.Client.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.Unix()),
		Member: member,
	}).Err(); err != nil {
		return false, fmt.Errorf("failed to record request: %w", err)
	}

	// Expiry keeps abandoned keys from accumulating; a failure here only
	// delays that cleanup, so it does not fail the request.
	_ = r.redis.Client.Expire(ctx, redisKey, window+time.Minute).Err()

	return true, nil
}

// GetRemainingRequests returns how many requests the key has left in the
// current window.
func (r *RateLimiter) GetRemainingRequests(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	count, err := r.pruneAndCount(ctx, rateLimitKey(key), time.Now().Add(-window))
	if err != nil {
		return 0, err
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (r *RateLimiter) pruneAndCount(ctx context.Context, redisKey string, windowStart time.Time) (int64, error) {
	err := r.redis.Client.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.Unix())).Err()
	if err != nil {
		return 0, fmt.Errorf("failed to prune window: %w", err)
	}

	count, err := r.redis.Client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count window: %w", err)
	}
	return count, nil
}
