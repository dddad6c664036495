package rag

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/socialchef/recipe-finder/internal/cache"
	"github.com/socialchef/recipe-finder/internal/config"
	"github.com/socialchef/recipe-finder/internal/db"
	"github.com/socialchef/recipe-finder/internal/services/openai"
)

// DimensionsFor returns the vector size produced by an OpenAI embedding model.
func DimensionsFor(model string) int {
	switch model {
	case "text-embedding-3-large":
		return 3072
	default:
		return 1536
	}
}

// Components groups the retrieval pipeline built from one store.
type Components struct {
	Store     Store
	Embedder  *Embedder
	Retriever *Retriever
	Ingestor  *Ingestor
}

// OpenStore creates the store named by cfg.RAG.Store. It returns a nil store
// for "none". The returned close function is never nil.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	switch cfg.RAG.Store {
	case "none":
		return nil, func() {}, nil
	case "pgvector":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, func() {}, fmt.Errorf("failed to connect to database: %w", err)
		}
		store := NewPgVectorStore(pool)
		if err := store.Migrate(ctx, DimensionsFor(cfg.Embedding.Model)); err != nil {
			pool.Close()
			return nil, func() {}, err
		}
		return store, pool.Close, nil
	default:
		return NewMemoryStore(), func() {}, nil
	}
}

// NewComponents wires the embedder, retriever and ingestor around store.
// embeddingCache may be nil.
func NewComponents(cfg *config.Config, store Store, embeddingCache cache.EmbeddingCache, logger *slog.Logger) *Components {
	client := openai.NewClient(openai.Options{
		Provider: openai.ProviderOpenAI,
		APIKey:   cfg.OpenAIKey,
		BaseURL:  cfg.OpenAIBaseURL,
	})
	embedder := NewEmbedder(client, embeddingCache, cfg.Embedding.Model,
		time.Duration(cfg.Embedding.CacheTTLMinutes)*time.Minute)

	return &Components{
		Store:    store,
		Embedder: embedder,
		Retriever: NewRetriever(embedder, store, RetrieverOptions{
			MaxResults:  cfg.RAG.MaxResults,
			MinScore:    cfg.RAG.MinScore,
			DisplayName: cfg.Embedding.DisplayName,
		}),
		Ingestor: NewIngestor(embedder, store, IngestorOptions{
			ChunkSize:    cfg.RAG.ChunkSize,
			ChunkOverlap: cfg.RAG.ChunkOverlap,
			Logger:       logger,
		}),
	}
}
