package openai

import (
	"errors"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
)

var (
	ErrNoResponse       = errors.New("no response from model")
	ErrNoEmbedding      = errors.New("no embedding returned")
	ErrNoImage          = errors.New("no image returned")
	ErrToolLoopExceeded = errors.New("tool call limit exceeded")
)

// StatusCode extracts the HTTP status from a go-openai error, or 0.
func StatusCode(err error) int {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// wrapError keeps the status code in the message so callers can classify
// provider failures without importing go-openai.
func wrapError(provider Provider, op string, err error) error {
	if status := StatusCode(err); status != 0 {
		return fmt.Errorf("%s %s failed (status %d): %w", Label(provider), op, status, err)
	}
	return fmt.Errorf("%s %s failed: %w", Label(provider), op, err)
}
