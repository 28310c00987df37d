// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ptieasy-service/internal/pkg/search"
)

const (
	DefaultMaxLoginAttempts = 5
	DefaultLoginWindow      = 15 * time.Minute
)

type RateLimiter struct {
	store       Store
	maxAttempts int64
	window      time.Duration
}

func NewRateLimiter(store Store) *RateLimiter {
	return &RateLimiter{
		store:       store,
		maxAttempts: DefaultMaxLoginAttempts,
		window:      DefaultLoginWindow,
	}
}

// CheckLoginAttempt counts an attempt and reports whether it is allowed
func (r *RateLimiter) CheckLoginAttempt(ctx context.Context, ip, email string) (bool, int64, error) {
	count, err := r.store.Incr(ctx, r.loginKey(ip, email), r.window)
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment login attempt: %w", err)
	}

	remaining := r.maxAttempts - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= r.maxAttempts, remaining, nil
}

// ResetLoginAttempts resets the login attempt counter
func (r *RateLimiter) ResetLoginAttempts(ctx context.Context, ip, email string) error {
	return r.store.Del(ctx, r.loginKey(ip, email))
}

// loginKey folds the email the same way account lookup does, so case and
// whitespace variants share one budget
func (r *RateLimiter) loginKey(ip, email string) string {
	return fmt.Sprintf("ratelimit:login:%s:%s", ip, search.Fold(strings.TrimSpace(email)))
}
