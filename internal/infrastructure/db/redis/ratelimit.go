package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter backed by Redis.
// Key format: ratelimit:<scope>:<subject>:<window_start_unix>
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter allows limit hits per subject in each window.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: int64(limit), window: window, now: time.Now}
}

// Allow counts one hit for subject and reports whether it is within the
// limit, together with the time until the current window resets.
func (l *RateLimiter) Allow(ctx context.Context, scope, subject string) (bool, time.Duration, error) {
	start := l.now().Truncate(l.window)
	key := l.key(scope, subject, start)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, 0, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	reset := start.Add(l.window).Sub(l.now())
	return n <= l.limit, reset, nil
}

func (l *RateLimiter) key(scope, subject string, start time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", scope, subject, start.Unix())
}
