package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisEmbeddingCache provides Redis-backed caching for embedding vectors.
// A nil client disables caching.
type RedisEmbeddingCache struct {
	client *redis.Client
	prefix string
}

func NewRedisEmbeddingCache(client *redis.Client) *RedisEmbeddingCache {
	return &RedisEmbeddingCache{
		client: client,
		prefix: "embedding:",
	}
}

// makeKey hashes model and text so long chunks produce short keys.
func (c *RedisEmbeddingCache) makeKey(model, text string) string {
	hash := sha256.Sum256([]byte(model + "\x00" + text))
	return fmt.Sprintf("%s%s:%x", c.prefix, model, hash)
}

func (c *RedisEmbeddingCache) Get(ctx context.Context, model, text string) ([]float32, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, c.makeKey(model, text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.WarnContext(ctx, "Redis embedding cache get failed", "error", err)
		return nil, false
	}

	var vector []float32
	if err := json.Unmarshal(data, &vector); err != nil {
		slog.WarnContext(ctx, "Failed to unmarshal cached embedding", "error", err)
		return nil, false
	}
	return vector, true
}

// Set never fails on Redis errors; they are logged and the vector is simply
// not cached.
func (c *RedisEmbeddingCache) Set(ctx context.Context, model, text string, vector []float32, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := json.Marshal(vector)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, c.makeKey(model, text), data, ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Redis embedding cache set failed", "error", err)
	}
	return nil
}
