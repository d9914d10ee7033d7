package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures = 5
	defaultWindow      = 15 * time.Minute
)

// LoginThrottle counts login attempts per login name in Redis. A successful
// login clears the counter, so it effectively counts consecutive failures.
// Key format: login_failures:<login>
// The counter expires window after the first attempt in a burst.
type LoginThrottle struct {
	client      redis.Cmdable
	maxFailures int64
	window      time.Duration
}

// NewLoginThrottle creates a LoginThrottle. Non-positive limits fall back to
// the defaults.
func NewLoginThrottle(client redis.Cmdable, maxFailures int, window time.Duration) *LoginThrottle {
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginThrottle{client: client, maxFailures: int64(maxFailures), window: window}
}

// Acquire counts one attempt for login and reports whether it is within the
// limit. The increment and the window start run in one MULTI block. On a
// Redis error the attempt is allowed and the error returned.
func (t *LoginThrottle) Acquire(ctx context.Context, login string) (bool, error) {
	n, err := t.add(ctx, login, 1)
	if err != nil {
		return true, fmt.Errorf("throttle acquire: %w", err)
	}
	return n <= t.maxFailures, nil
}

// Release takes back an attempt that never reached the credential check.
func (t *LoginThrottle) Release(ctx context.Context, login string) error {
	if _, err := t.add(ctx, login, -1); err != nil {
		return fmt.Errorf("throttle release: %w", err)
	}
	return nil
}

func (t *LoginThrottle) add(ctx context.Context, login string, delta int64) (int64, error) {
	key := t.key(login)
	pipe := t.client.TxPipeline()
	cmd := pipe.IncrBy(ctx, key, delta)
	pipe.ExpireNX(ctx, key, t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return cmd.Val(), nil
}

// Reset clears the failure counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, login string) error {
	if err := t.client.Del(ctx, t.key(login)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

func (t *LoginThrottle) key(login string) string {
	return "login_failures:" + login
}
