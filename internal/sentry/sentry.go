package sentry

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	apperrors "github.com/socialchef/recipe-finder/internal/errors"
)

// Init initializes Sentry with the provided configuration.
// If DSN is empty, Sentry initialization is skipped and nil is returned.
func Init(dsn, env, serviceName, serviceVersion string) error {
	if dsn == "" {
		return nil
	}

	options := sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		ServerName:       serviceName,
		Release:          serviceVersion,
		AttachStacktrace: true,
		TracesSampleRate: 0.0, // Disable Sentry tracing, use OpenTelemetry instead
	}

	if err := sentry.Init(options); err != nil {
		return fmt.Errorf("failed to initialize Sentry: %w", err)
	}

	return nil
}

// Flush waits for all pending Sentry events to be sent.
// Call this during graceful shutdown.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

// Recover captures a panic and forwards it to Sentry.
// Should be used with defer in goroutines.
func Recover() {
	sentry.Recover()
}

// CaptureError reports err unless it is an operational AppError (bad input,
// a provider hiccup the caller already retried). Reports go to the hub on ctx
// when there is one.
func CaptureError(ctx context.Context, err error) {
	if err == nil || !ShouldReport(err) {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		var appErr *apperrors.AppError
		if apperrors.As(err, &appErr) {
			scope.SetTag("error_type", string(appErr.Type))
			scope.SetTag("error_code", appErr.ErrorCode)
		}
		hub.CaptureException(err)
	})
}

// ShouldReport reports whether err is worth an alert.
func ShouldReport(err error) bool {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		return !appErr.IsOperational || appErr.Type == apperrors.ErrorTypeInternal
	}
	return true
}
