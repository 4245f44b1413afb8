// internal/pkg/ratelimit/redis.go
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis counts with INCR. The window starts with SET NX EX in the same
// MULTI, so a counter never exists without its expiry.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	key = r.prefix + key

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, window)
		incr = pipe.Incr(ctx, key)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (r *Redis) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
