// Package cache содержит кэш кодов коротких ссылок в Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "shortlink:"

// RedisCache хранит сопоставление code -> url. Ссылки никогда не изменяются,
// поэтому запись в кэше не требует инвалидации, только TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache подключается к Redis и проверяет соединение.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get возвращает URL по коду; found=false при промахе.
func (c *RedisCache) Get(ctx context.Context, code string) (string, bool, error) {
	url, err := c.client.Get(ctx, keyPrefix+code).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return url, true, nil
}

// Set сохраняет URL по коду с TTL кэша.
func (c *RedisCache) Set(ctx context.Context, code, url string) error {
	return c.client.Set(ctx, keyPrefix+code, url, c.ttl).Err()
}

// Close закрывает соединение с Redis.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
