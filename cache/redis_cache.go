package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisJSON stores values as JSON under a key prefix. A nil client or a
// non-positive TTL disables it, and every Redis failure is treated as a miss.
type RedisJSON struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
}

func NewRedisJSON(client *redis.Client, prefix string, ttl time.Duration, logger zerolog.Logger) *RedisJSON {
	return &RedisJSON{client: client, prefix: prefix, ttl: ttl, logger: logger.With().Str("component", "cache").Logger()}
}

func (c *RedisJSON) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

func (c *RedisJSON) Read(ctx context.Context, key string, out any) bool {
	if !c.enabled() {
		return false
	}
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(val, out); err != nil {
		return false
	}
	return true
}

func (c *RedisJSON) Write(ctx context.Context, key string, val any) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// InvalidatePrefix removes every key starting with prefix.
func (c *RedisJSON) InvalidatePrefix(ctx context.Context, prefix string) {
	if !c.enabled() {
		return
	}
	iter := c.client.Scan(ctx, 0, c.prefix+prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Str("prefix", prefix).Msg("cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Str("prefix", prefix).Msg("cache invalidation failed")
	}
}
