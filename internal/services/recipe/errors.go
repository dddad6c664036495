package recipe

import (
	"strings"

	"github.com/socialchef/recipe-finder/internal/errors"
	"github.com/socialchef/recipe-finder/internal/services/openai"
)

// ProviderError represents a classified error from a chat provider
type ProviderError struct {
	Type     string // "rate_limit", "credit_exhausted", "server_error", "client_error", "unknown"
	Message  string
	Provider string
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return e.Message
}

var errorPatterns = []struct {
	kind     string
	patterns []string
}{
	{"rate_limit", []string{"status 429", "http 429", "rate limit", "too many requests"}},
	{"credit_exhausted", []string{"status 402", "http 402", "insufficient credit", "insufficient_quota", "credit exhausted", "billing"}},
}

var statusPatterns = []struct {
	kind     string
	patterns []string
}{
	{"server_error", []string{"status 5", "http 5", "server error", "internal error", "overloaded"}},
	{"client_error", []string{"status 4", "http 4", "bad request", "unauthorized", "forbidden"}},
}

// ClassifyError analyzes an error and returns a ProviderError with classification
func ClassifyError(err error, provider string) *ProviderError {
	if err == nil {
		return nil
	}

	msg := err.Error()
	classified := func(kind string) *ProviderError {
		return &ProviderError{Type: kind, Message: msg, Provider: provider}
	}

	if kind := matchPatterns(msg, errorPatterns); kind != "" {
		return classified(kind)
	}

	if status := openai.StatusCode(err); status != 0 {
		return classified(kindForStatus(status))
	}

	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		if kind := kindForStatus(appErr.StatusCode); kind != "unknown" {
			return classified(kind)
		}
	}

	if kind := matchPatterns(msg, statusPatterns); kind != "" {
		return classified(kind)
	}

	return classified("unknown")
}

func kindForStatus(status int) string {
	switch {
	case status == 429:
		return "rate_limit"
	case status == 402:
		return "credit_exhausted"
	case status >= 500:
		return "server_error"
	case status >= 400:
		return "client_error"
	default:
		return "unknown"
	}
}

func matchPatterns(msg string, table []struct {
	kind     string
	patterns []string
}) string {
	lower := strings.ToLower(msg)
	for _, entry := range table {
		for _, p := range entry.patterns {
			if strings.Contains(lower, p) {
				return entry.kind
			}
		}
	}
	return ""
}

// IsRetryableError returns true if the error is retryable (rate limit, credit exhausted, or server error)
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	switch ClassifyError(err, "").Type {
	case "rate_limit", "credit_exhausted", "server_error":
		return true
	default:
		return false
	}
}
