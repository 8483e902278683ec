// Package attempts counts failed publisher logins in Redis so repeated
// guessing shows up in logs and metrics. Counters never block a login.
package attempts

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login:failed:"

// Counter tracks failures per username over a sliding window: every failure
// pushes the expiry of the counter forward.
type Counter struct {
	rdb    redis.Cmdable
	window time.Duration
}

func NewCounter(rdb redis.Cmdable, window time.Duration) *Counter {
	return &Counter{rdb: rdb, window: window}
}

func key(username string) string { return keyPrefix + username }

// Fail records one failed login and returns the failures in the window.
func (c *Counter) Fail(ctx context.Context, username string) (int64, error) {
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key(username))
	pipe.Expire(ctx, key(username), c.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis: %w", err)
	}
	return incr.Val(), nil
}

// Reset clears the counter after a successful login.
func (c *Counter) Reset(ctx context.Context, username string) error {
	if err := c.rdb.Del(ctx, key(username)).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Nop is used when no Redis is configured.
type Nop struct{}

func (Nop) Fail(context.Context, string) (int64, error) { return 0, nil }
func (Nop) Reset(context.Context, string) error         { return nil }
