package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle limits failed logins per email over a fixed window.
// Key format: <prefix>login:fail:<email>
type LoginThrottle struct {
	client      *redis.Client
	prefix      string
	maxAttempts int64
	window      time.Duration
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
// prefix namespaces its keys (REDIS_KEY_PREFIX).
func NewLoginThrottle(client *redis.Client, prefix string, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, prefix: prefix, maxAttempts: int64(maxAttempts), window: window}
}

// Allow reports whether another attempt may be made for email.
func (t *LoginThrottle) Allow(ctx context.Context, email string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n < t.maxAttempts, nil
}

// Fail records a failed attempt. The window starts at the first failure:
// SET NX EX creates the counter with its TTL, INCR keeps that TTL. Both run
// in one MULTI so a counter never exists without an expiry.
func (t *LoginThrottle) Fail(ctx context.Context, email string) error {
	key := t.key(email)
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, t.window)
		pipe.Incr(ctx, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	return nil
}

// Reset clears the failure count after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	return t.client.Del(ctx, t.key(email)).Err()
}

func (t *LoginThrottle) key(email string) string {
	return fmt.Sprintf("%slogin:fail:%s", t.prefix, email)
}
