package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/socialchef/recipe-finder/internal/cache"
	"github.com/socialchef/recipe-finder/internal/utils"
)

const (
	embedBatchSize   = 64
	embedConcurrency = 4
)

// embeddingClient is the part of openai.Client the embedder needs.
type embeddingClient interface {
	Embed(ctx context.Context, model string, texts []string) ([][]float32, error)
}

// Embedder turns texts into vectors, consulting the cache first and sending
// the misses to the embedding API in parallel batches.
type Embedder struct {
	client embeddingClient
	cache  cache.EmbeddingCache
	model  string
	ttl    time.Duration
	retry  utils.RetryConfig
}

// NewEmbedder creates an embedder. embeddingCache may be nil.
func NewEmbedder(client embeddingClient, embeddingCache cache.EmbeddingCache, model string, ttl time.Duration) *Embedder {
	return &Embedder{
		client: client,
		cache:  embeddingCache,
		model:  model,
		ttl:    ttl,
		retry:  utils.EmbeddingRetryConfig(),
	}
}

func (e *Embedder) Model() string {
	return e.model
}

// Embed returns one vector per text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var missing []int
	for i, text := range texts {
		if e.cache != nil {
			if v, ok := e.cache.Get(ctx, e.model, text); ok {
				vectors[i] = v
				continue
			}
		}
		missing = append(missing, i)
	}
	if len(missing) == 0 {
		return vectors, nil
	}

	batches := utils.Batch(missing, embedBatchSize)
	results, err := utils.MapParallel(ctx, batches, embedConcurrency, func(ctx context.Context, batch []int) ([][]float32, error) {
		inputs := make([]string, len(batch))
		for j, idx := range batch {
			inputs[j] = texts[idx]
		}
		return utils.WithRetry(ctx, func(ctx context.Context) ([][]float32, error) {
			return e.client.Embed(ctx, e.model, inputs)
		}, e.retry)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed %d texts: %w", len(missing), err)
	}

	for b, batch := range batches {
		for j, idx := range batch {
			vectors[idx] = results[b][j]
			if e.cache != nil {
				_ = e.cache.Set(ctx, e.model, texts[idx], vectors[idx], e.ttl)
			}
		}
	}
	return vectors, nil
}

// EmbedQuery embeds a single query text.
func (e *Embedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
