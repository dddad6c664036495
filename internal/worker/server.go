package worker

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// NewServer creates a new Asynq server for processing tasks
func NewServer(redisURL string, concurrency int) (*asynq.Server, error) {
	opt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	if concurrency <= 0 {
		concurrency = 2
	}

	return asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				slog.ErrorContext(ctx, "Task failed",
					"task_type", task.Type(),
					"retry", retried,
					"max_retry", maxRetry,
					"error", err)
			}),
		},
	), nil
}

// NewServeMux registers the processor's handlers behind the Sentry and
// tracing middleware.
func NewServeMux(processor *DocumentProcessor) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(SentryMiddleware)
	mux.Use(OTelMiddleware)
	mux.HandleFunc(TypeIngestDocument, processor.HandleIngestDocument)
	return mux
}
