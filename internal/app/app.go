// Package app holds the start-up wiring shared by the server, worker and
// ingest binaries.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/socialchef/recipe-finder/internal/cache"
	"github.com/socialchef/recipe-finder/internal/config"
	"github.com/socialchef/recipe-finder/internal/logger"
	"github.com/socialchef/recipe-finder/internal/metrics"
	"github.com/socialchef/recipe-finder/internal/sentry"
	"github.com/socialchef/recipe-finder/internal/services/rag"
	"github.com/socialchef/recipe-finder/internal/services/recipe"
	"github.com/socialchef/recipe-finder/internal/services/storage"
	"github.com/socialchef/recipe-finder/internal/telemetry"
)

// InitObservability starts telemetry, Sentry, business metrics and the
// default logger. The returned function flushes and shuts them down.
func InitObservability(ctx context.Context, cfg *config.Config, serviceName string) (*slog.Logger, func()) {
	var shutdowns []func()

	shutdown, err := telemetry.InitTelemetry(ctx, serviceName, cfg.ServiceVersion, cfg.Env,
		cfg.OtelExporterOTLPEndpoint, telemetry.ParseHeaders(cfg.OtelExporterOTLPHeaders))
	if err != nil {
		slog.Warn("Failed to init telemetry", "error", err)
	} else {
		shutdowns = append(shutdowns, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdown(ctx)
		})
	}

	if err := sentry.Init(cfg.SentryDSN, cfg.Env, serviceName, cfg.ServiceVersion); err != nil {
		slog.Warn("Failed to init Sentry", "error", err)
	} else if cfg.SentryDSN != "" {
		shutdowns = append(shutdowns, func() { sentry.Flush(2 * time.Second) })
	}

	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	return log, func() {
		for i := len(shutdowns) - 1; i >= 0; i-- {
			shutdowns[i]()
		}
	}
}

// NewRAG opens the configured embedding store and builds the retrieval
// pipeline around it. It returns nil components when the store is "none".
// The embedding cache is used when REDIS_URL is set.
func NewRAG(ctx context.Context, cfg *config.Config, log *slog.Logger) (*rag.Components, func(), error) {
	store, closeStore, err := rag.OpenStore(ctx, cfg)
	if err != nil {
		return nil, closeStore, err
	}
	if store == nil {
		return nil, closeStore, nil
	}

	var embeddingCache cache.EmbeddingCache
	closeAll := closeStore
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Warn("Invalid REDIS_URL, embedding cache disabled", "error", err)
		} else {
			embeddingCache = cache.NewRedisEmbeddingCache(client)
			closeAll = func() {
				client.Close()
				closeStore()
			}
		}
	}

	log.Info("Embedding store ready", "store", store.Name(), "model", cfg.Embedding.Model)
	return rag.NewComponents(cfg, store, embeddingCache, log), closeAll, nil
}

// NewImageBackend returns the configured image backend, mirrored into
// Supabase storage when a bucket is set, or nil when images are disabled.
func NewImageBackend(cfg *config.Config) recipe.ImageBackend {
	backend := recipe.NewImageBackend(cfg)
	if backend == nil || cfg.Image.MirrorBucket == "" {
		return backend
	}
	uploader := storage.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, cfg.Image.MirrorBucket)
	return recipe.NewMirroredImageBackend(backend, uploader)
}
