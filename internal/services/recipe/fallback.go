package recipe

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/socialchef/recipe-finder/internal/errors"
	"github.com/socialchef/recipe-finder/internal/metrics"
)

// FallbackBackend implements ChatBackend with fallback logic
type FallbackBackend struct {
	Primary   ChatBackend
	Secondary ChatBackend
}

// NewFallbackBackend creates a new fallback backend
func NewFallbackBackend(primary, secondary ChatBackend) *FallbackBackend {
	return &FallbackBackend{
		Primary:   primary,
		Secondary: secondary,
	}
}

func (f *FallbackBackend) DisplayName() string {
	return fmt.Sprintf("%s, fallback %s", f.Primary.DisplayName(), f.Secondary.DisplayName())
}

// Complete tries the primary backend first and falls back to the secondary
// on rate limits, exhausted credits and server errors.
func (f *FallbackBackend) Complete(ctx context.Context, req CompletionRequest) (Recipe, error) {
	result, err := f.Primary.Complete(ctx, req)
	if err == nil {
		return result, nil
	}

	providerErr := ClassifyError(err, f.Primary.DisplayName())

	if !IsRetryableError(err) {
		slog.InfoContext(ctx, "Primary chat backend failed with non-retryable error, not attempting fallback",
			"error_type", providerErr.Type,
			"error", err.Error())
		return Recipe{}, err
	}

	slog.InfoContext(ctx, "Primary chat backend failed with retryable error, attempting fallback",
		"error_type", providerErr.Type,
		"error", err.Error())

	metrics.ProviderFallbackTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from_provider", f.Primary.DisplayName()),
		attribute.String("to_provider", f.Secondary.DisplayName()),
		attribute.String("reason", providerErr.Type),
	))

	result, fallbackErr := f.Secondary.Complete(ctx, req)
	if fallbackErr == nil {
		slog.InfoContext(ctx, "Fallback chat backend succeeded",
			"primary_error_type", providerErr.Type)
		return result, nil
	}

	fallbackProviderErr := ClassifyError(fallbackErr, f.Secondary.DisplayName())
	slog.ErrorContext(ctx, "Both primary and secondary chat backends failed",
		"primary_error_type", providerErr.Type,
		"primary_error", err.Error(),
		"fallback_error_type", fallbackProviderErr.Type,
		"fallback_error", fallbackErr.Error())

	return Recipe{}, errors.NewBackendError(
		"both primary and secondary chat backends failed",
		"PROVIDER_FALLBACK_FAILED",
		fallbackErr,
	)
}
