package handler

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker 保证同一个月份同时只有一次优化
type Locker interface {
	Acquire(ctx context.Context, key string, expiration time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, time.Now().Format(time.RFC3339), expiration).Result()
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}
