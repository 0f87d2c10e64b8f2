package rediskv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrsteele09/go-storefront-session/token"
	"github.com/redis/go-redis/v9"
)

var _ token.KV = (*RedisKV)(nil)

// RedisKV stores client token keys in Redis under a fixed prefix.
// Values have no TTL; expiry is decided by session derivation, not by Redis.
type RedisKV struct {
	redis  *redis.Client
	prefix string
}

func New(client *redis.Client, prefix string) *RedisKV {
	return &RedisKV{
		redis:  client,
		prefix: prefix,
	}
}

func (s *RedisKV) Get(ctx context.Context, key string) (string, error) {
	value, err := s.redis.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", token.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("[RedisKV Get] %s: %w", key, err)
	}
	return value, nil
}

func (s *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := s.redis.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("[RedisKV Set] %s: %w", key, err)
	}
	return nil
}

func (s *RedisKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, 0, len(keys))
	for _, key := range keys {
		prefixed = append(prefixed, s.prefix+key)
	}
	if err := s.redis.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("[RedisKV Delete] %w", err)
	}
	return nil
}
