package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	apperrors "github.com/socialchef/recipe-finder/internal/errors"
)

// documentIngestor is satisfied by *rag.Ingestor.
type documentIngestor interface {
	IngestDocument(ctx context.Context, name string, data []byte) (int, error)
}

type DocumentProcessor struct {
	ingestor documentIngestor
	metrics  *WorkerMetrics
}

func NewDocumentProcessor(ingestor documentIngestor, metrics *WorkerMetrics) *DocumentProcessor {
	return &DocumentProcessor{
		ingestor: ingestor,
		metrics:  metrics,
	}
}

func (p *DocumentProcessor) HandleIngestDocument(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload IngestDocumentPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		p.metrics.RecordJob(ctx, t.Type(), "invalid", time.Since(start).Seconds())
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	slog.InfoContext(ctx, "Ingesting document", "filename", payload.Filename, "bytes", len(payload.Data))

	chunks, err := p.ingestor.IngestDocument(ctx, payload.Filename, payload.Data)
	if err != nil {
		p.metrics.RecordJob(ctx, t.Type(), "failed", time.Since(start).Seconds())
		if !isRetryableIngestion(err) {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}

	p.metrics.RecordJob(ctx, t.Type(), "success", time.Since(start).Seconds())
	slog.InfoContext(ctx, "Document ingested", "filename", payload.Filename, "chunks", chunks)
	return nil
}

// isRetryableIngestion reports whether a later attempt could succeed. Bad
// input never gets better.
func isRetryableIngestion(err error) bool {
	var appErr *apperrors.AppError
	if !apperrors.As(err, &appErr) {
		return true
	}
	if appErr.Type == apperrors.ErrorTypeValidation {
		return false
	}
	switch appErr.ErrorCode {
	case "DOCUMENT_EMPTY", "DOCUMENT_PARSE_FAILED":
		return false
	}
	return true
}
