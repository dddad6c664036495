package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var (
	meter = otel.Meter("recipe-finder/business")

	nop = noop.NewMeterProvider().Meter("noop")

	// Recipe metrics
	RecipeFetchesTotal, _  = nop.Int64Counter("recipe.fetches.total")
	RecipeFetchDuration, _ = nop.Float64Histogram("recipe.fetch.duration")

	// Image metrics
	ImageGenerationsTotal, _ = nop.Int64Counter("image.generations.total")

	// Ingestion metrics
	DocumentsIngestedTotal, _ = nop.Int64Counter("rag.documents.ingested.total")
	ChunksIngestedTotal, _    = nop.Int64Counter("rag.chunks.ingested.total")
	RetrievalDuration, _      = nop.Float64Histogram("rag.retrieval.duration")

	// External API metrics
	ExternalAPICallsTotal, _ = nop.Int64Counter("external.api.calls.total")
	ExternalAPIDuration, _   = nop.Float64Histogram("external.api.duration")

	// AI metrics
	AIGenerationDuration, _ = nop.Float64Histogram("ai.generation.duration")

	// Provider fallback metrics
	ProviderFallbackTotal, _ = nop.Int64Counter("provider.fallback.total")
)

// Init replaces the no-op instruments with ones from the global meter
// provider. Call it after telemetry is set up.
func Init() error {
	var err error

	// Recipe metrics
	RecipeFetchesTotal, err = meter.Int64Counter(
		"recipe.fetches.total",
		metric.WithDescription("Total number of recipe fetches by strategy and status"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RecipeFetchDuration, err = meter.Float64Histogram(
		"recipe.fetch.duration",
		metric.WithDescription("Duration of a recipe fetch including image generation"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2, 5, 10, 30, 60, 120),
	)
	if err != nil {
		return err
	}

	// Image metrics
	ImageGenerationsTotal, err = meter.Int64Counter(
		"image.generations.total",
		metric.WithDescription("Total number of recipe image generations by status"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	// Ingestion metrics
	DocumentsIngestedTotal, err = meter.Int64Counter(
		"rag.documents.ingested.total",
		metric.WithDescription("Total number of documents ingested into the embedding store"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ChunksIngestedTotal, err = meter.Int64Counter(
		"rag.chunks.ingested.total",
		metric.WithDescription("Total number of text chunks embedded and stored"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RetrievalDuration, err = meter.Float64Histogram(
		"rag.retrieval.duration",
		metric.WithDescription("Duration of content retrieval for a prompt"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2, 5),
	)
	if err != nil {
		return err
	}

	// External API metrics
	ExternalAPICallsTotal, err = meter.Int64Counter(
		"external.api.calls.total",
		metric.WithDescription("Total number of external API calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPIDuration, err = meter.Float64Histogram(
		"external.api.duration",
		metric.WithDescription("Duration of external API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30),
	)
	if err != nil {
		return err
	}

	// AI metrics
	AIGenerationDuration, err = meter.Float64Histogram(
		"ai.generation.duration",
		metric.WithDescription("Duration of a single chat completion"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	// Provider fallback metrics
	ProviderFallbackTotal, err = meter.Int64Counter(
		"provider.fallback.total",
		metric.WithDescription("Total number of provider fallback events"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	return nil
}

// RecordRecipeFetch records the outcome of a recipe fetch.
func RecordRecipeFetch(ctx context.Context, strategy, status string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.String("status", status),
	)
	RecipeFetchesTotal.Add(ctx, 1, attrs)
	RecipeFetchDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordImageGeneration records an image generation attempt.
func RecordImageGeneration(ctx context.Context, model, status string) {
	ImageGenerationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("status", status),
	))
}

// RecordIngestion records a document ingested with the number of chunks stored.
func RecordIngestion(ctx context.Context, store string, chunks int) {
	attrs := metric.WithAttributes(attribute.String("store", store))
	DocumentsIngestedTotal.Add(ctx, 1, attrs)
	ChunksIngestedTotal.Add(ctx, int64(chunks), attrs)
}
