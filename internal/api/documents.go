package api

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	apperrors "github.com/socialchef/recipe-finder/internal/errors"
	"github.com/socialchef/recipe-finder/internal/middleware"
	"github.com/socialchef/recipe-finder/internal/sentry"
	"github.com/socialchef/recipe-finder/internal/services/rag"
)

const maxDocumentBytes = 10 << 20

type DocumentUploadResponse struct {
	Filename string `json:"filename"`
	TaskID   string `json:"task_id,omitempty"`
	Chunks   int    `json:"chunks,omitempty"`
	Status   string `json:"status"`
}

// HandleUploadDocument adds a recipe document to the retrieval store. The
// document is queued when a worker queue is configured and ingested inline
// otherwise.
func (s *Server) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if s.queue == nil && s.ingestor == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error: "Document ingestion is not configured",
			Code:  "INGESTION_DISABLED",
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperrors.NewValidationError("A document is required in the \"file\" form field", "FILE_REQUIRED", ""))
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if !rag.IsSupported(filename) {
		writeError(w, apperrors.NewValidationError("Unsupported document type: "+filepath.Ext(filename),
			"UNSUPPORTED_DOCUMENT", "Upload a PDF, .txt or .md file"))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentBytes+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, documentTooLarge())
			return
		}
		writeError(w, apperrors.NewValidationError("Failed to read uploaded document", "FILE_UNREADABLE", ""))
		return
	}
	if len(data) > maxDocumentBytes {
		writeError(w, documentTooLarge())
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	s.logger.InfoContext(r.Context(), "Document uploaded", "filename", filename, "bytes", len(data), "user_id", userID)

	if s.queue != nil {
		taskID, err := s.queue.EnqueueDocument(r.Context(), filename, data)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to enqueue document", "filename", filename, "error", err)
			sentry.CaptureError(r.Context(), err)
			writeError(w, apperrors.NewIngestionError("Failed to queue document", "ENQUEUE_FAILED", err))
			return
		}
		writeJSON(w, http.StatusAccepted, DocumentUploadResponse{Filename: filename, TaskID: taskID, Status: "queued"})
		return
	}

	chunks, err := s.ingestor.IngestDocument(r.Context(), filename, data)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to ingest document", "filename", filename, "error", err)
		sentry.CaptureError(r.Context(), err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, DocumentUploadResponse{Filename: filename, Chunks: chunks, Status: "ingested"})
}

func documentTooLarge() error {
	return apperrors.NewValidationError("Document is too large", "FILE_TOO_LARGE", "Upload documents of at most 10 MB")
}
