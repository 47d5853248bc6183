package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginFailurePrefix = "login:failures:"

// LoginThrottle counts failed logins per subject in Redis and locks the
// subject once maxAttempts failures happen within the lockout window.
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginThrottle returns a throttle; maxAttempts <= 0 disables locking.
func NewLoginThrottle(r *Redis, maxAttempts int, window time.Duration) *LoginThrottle {
	var client *redis.Client
	if r != nil {
		client = r.Client
	}
	return &LoginThrottle{client: client, maxAttempts: int64(maxAttempts), window: window}
}

func (t *LoginThrottle) enabled() bool {
	return t != nil && t.client != nil && t.maxAttempts > 0 && t.window > 0
}

// Locked reports whether subject has exhausted its attempts.
func (t *LoginThrottle) Locked(ctx context.Context, subject string) (bool, error) {
	if !t.enabled() {
		return false, nil
	}
	count, err := t.client.Get(ctx, loginFailurePrefix+subject).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read login failures: %w", err)
	}
	return count >= t.maxAttempts, nil
}

// RecordFailure increments the failure counter; the window starts at the first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, subject string) error {
	if !t.enabled() {
		return nil
	}
	key := loginFailurePrefix + subject
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("expire login failures: %w", err)
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, subject string) error {
	if !t.enabled() {
		return nil
	}
	if err := t.client.Del(ctx, loginFailurePrefix+subject).Err(); err != nil {
		return fmt.Errorf("reset login failures: %w", err)
	}
	return nil
}
