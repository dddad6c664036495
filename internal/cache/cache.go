package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// EmbeddingCache stores embedding vectors keyed by model and input text.
type EmbeddingCache interface {
	// Get returns the cached vector and true, or nil and false on a miss.
	// Backend failures are treated as misses.
	Get(ctx context.Context, model, text string) ([]float32, bool)

	// Set stores a vector with the given TTL.
	Set(ctx context.Context, model, text string, vector []float32, ttl time.Duration) error
}

// NewRedisClient builds a traced go-redis client from a redis://, rediss://
// or plain host:port address.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opt := &redis.Options{Addr: redisURL}
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, err
		}
		opt = parsed
	}

	client := redis.NewClient(opt)
	if err := redisotel.InstrumentTracing(client); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
