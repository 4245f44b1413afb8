// internal/pkg/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	LoginAttempts = 5
	LoginWindow   = 15 * time.Minute

	PasswordResetAttempts = 3
	PasswordResetWindow   = time.Hour
)

// Counter counts hits per key within a fixed window that starts with the
// first hit.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

// Limiter applies the storefront's attempt limits on top of a Counter.
type Limiter struct {
	counter Counter
}

func NewLimiter(counter Counter) *Limiter {
	return &Limiter{counter: counter}
}

// CheckLoginAttempt counts a login attempt for ip and email. Up to five
// attempts are allowed per fifteen minutes.
func (l *Limiter) CheckLoginAttempt(ctx context.Context, ip, email string) (bool, int64, error) {
	count, err := l.counter.Incr(ctx, loginKey(ip, email), LoginWindow)
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment login attempt: %w", err)
	}

	remaining := LoginAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= LoginAttempts, remaining, nil
}

// ResetLoginAttempts clears the counter after a successful login.
func (l *Limiter) ResetLoginAttempts(ctx context.Context, ip, email string) error {
	return l.counter.Reset(ctx, loginKey(ip, email))
}

// CheckPasswordResetAttempt counts a reset request; three per hour per email.
func (l *Limiter) CheckPasswordResetAttempt(ctx context.Context, email string) (bool, error) {
	count, err := l.counter.Incr(ctx, "password_reset:"+normalize(email), PasswordResetWindow)
	if err != nil {
		return false, fmt.Errorf("failed to increment password reset attempt: %w", err)
	}
	return count <= PasswordResetAttempts, nil
}

func loginKey(ip, email string) string {
	return fmt.Sprintf("login:%s:%s", ip, normalize(email))
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
