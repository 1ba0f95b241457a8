package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ViewCache is a generic JSON-backed Redis cache for read projections.
// Bind it to a specific view type T; each instance holds a Redis client and an
// optional TTL (pass 0 for keys that should not expire).
type ViewCache[T any] struct {
	client *goredis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewViewCache creates a ViewCache backed by the provided Redis client.
func NewViewCache[T any](client *goredis.Client, ttl time.Duration, log *zap.Logger) *ViewCache[T] {
	return &ViewCache[T]{client: client, ttl: ttl, log: log}
}

// Get retrieves and unmarshals a value from Redis.
// Returns (nil, false) on any miss or deserialisation error.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("view cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.log.Warn("view cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &v, true
}

// Set stores value under every key in one pipelined round trip, so a view
// reachable through several lookup keys is written once.
// Errors are logged, not returned: a failed cache write only costs a later miss.
func (c *ViewCache[T]) Set(ctx context.Context, value *T, keys ...string) {
	if len(keys) == 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("view cache marshal failed", zap.Strings("keys", keys), zap.Error(err))
		return
	}
	_, err = c.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, key := range keys {
			pipe.Set(ctx, key, data, c.ttl)
		}
		return nil
	})
	if err != nil {
		c.log.Warn("view cache write failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
