package worker

import (
	"context"
	"errors"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"

	appsentry "github.com/socialchef/recipe-finder/internal/sentry"
)

// SentryMiddleware wraps asynq job handlers with Sentry error capture.
// Failures are reported once a task will not be retried again, unless they
// were caused by bad input.
func SentryMiddleware(h asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		taskID, _ := asynq.GetTaskID(ctx)
		queueName, _ := asynq.GetQueueName(ctx)
		retryCount, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetTag("task_type", t.Type())
		hub.Scope().SetTag("task_id", taskID)
		hub.Scope().SetTag("queue", queueName)
		hub.Scope().SetTag("retry_count", strconv.Itoa(retryCount))

		ctx = sentry.SetHubOnContext(ctx, hub)

		err := h.ProcessTask(ctx, t)
		if err != nil && isFinalAttempt(err, retryCount, maxRetry) &&
			(appsentry.ShouldReport(err) || isRetryableIngestion(err)) {
			hub.CaptureException(err)
		}

		return err
	})
}

func isFinalAttempt(err error, retryCount, maxRetry int) bool {
	return errors.Is(err, asynq.SkipRetry) || retryCount >= maxRetry
}
