package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAttempts(t *testing.T) {
	l := NewLimiter(NewMemory())
	ctx := context.Background()

	for i := int64(1); i <= LoginAttempts; i++ {
		ok, remaining, err := l.CheckLoginAttempt(ctx, "10.0.0.1", "a@b.co")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, LoginAttempts-i, remaining)
	}

	ok, remaining, err := l.CheckLoginAttempt(ctx, "10.0.0.1", " A@B.co ")
	require.NoError(t, err)
	assert.False(t, ok, "email is normalised before counting")
	assert.Zero(t, remaining)

	ok, _, err = l.CheckLoginAttempt(ctx, "10.0.0.2", "a@b.co")
	require.NoError(t, err)
	assert.True(t, ok, "another address has its own budget")

	require.NoError(t, l.ResetLoginAttempts(ctx, "10.0.0.1", "a@b.co"))
	ok, _, err = l.CheckLoginAttempt(ctx, "10.0.0.1", "a@b.co")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasswordResetAttempts(t *testing.T) {
	l := NewLimiter(NewMemory())
	ctx := context.Background()

	for i := 0; i < PasswordResetAttempts; i++ {
		ok, err := l.CheckPasswordResetAttempt(ctx, "a@b.co")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.CheckPasswordResetAttempt(ctx, "a@b.co")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_WindowExpires(t *testing.T) {
	m := NewMemory()
	now := time.Now()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	n, _ := m.Incr(ctx, "k", time.Minute)
	assert.Equal(t, int64(1), n)
	now = now.Add(30 * time.Second)
	n, _ = m.Incr(ctx, "k", time.Minute)
	assert.Equal(t, int64(2), n, "window runs from the first hit")

	now = now.Add(31 * time.Second)
	n, _ = m.Incr(ctx, "k", time.Minute)
	assert.Equal(t, int64(1), n)
}

func TestMemory_SweepsExpiredWindowsPeriodically(t *testing.T) {
	m := NewMemory()
	now := time.Now()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		_, err := m.Incr(ctx, k, time.Second)
		require.NoError(t, err)
	}
	now = now.Add(2 * time.Second)

	n, _ := m.Incr(ctx, "d", time.Hour)
	assert.Equal(t, int64(1), n)
	m.mu.Lock()
	assert.Len(t, m.windows, 4, "expired windows stay until the next sweep")
	m.mu.Unlock()

	n, _ = m.Incr(ctx, "a", time.Second)
	assert.Equal(t, int64(1), n, "an expired window restarts when touched")

	now = now.Add(sweepInterval)
	_, _ = m.Incr(ctx, "d", time.Hour)
	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Len(t, m.windows, 1)
	assert.Contains(t, m.windows, "d")
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	ctx := context.Background()
	r := NewRedis(client, "test:ratelimit:"+t.Name()+":")
	require.NoError(t, r.Reset(ctx, "k"))

	n, err := r.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	ttl, err := client.TTL(ctx, "test:ratelimit:"+t.Name()+":k").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	n, err = r.Incr(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	ttl, err = client.TTL(ctx, "test:ratelimit:"+t.Name()+":k").Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute, "window runs from the first hit")
	require.NoError(t, r.Reset(ctx, "k"))
}
