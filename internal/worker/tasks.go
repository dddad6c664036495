package worker

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TypeIngestDocument = "ingest:document"
)

// IngestDocumentPayload is the payload for document ingestion tasks.
// Data is the raw file content.
type IngestDocumentPayload struct {
	Filename string `json:"filename"`
	Data     []byte `json:"data"`
}

// NewIngestDocumentTask creates a new document ingestion task
func NewIngestDocumentTask(payload IngestDocumentPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeIngestDocument, data,
		asynq.MaxRetry(5),
		asynq.Timeout(10*time.Minute),
	), nil
}
