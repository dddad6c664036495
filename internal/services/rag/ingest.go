package rag

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/socialchef/recipe-finder/internal/errors"
	"github.com/socialchef/recipe-finder/internal/metrics"
)

var tracer = otel.Tracer("recipe-finder/rag")

// Ingestor splits documents into overlapping chunks, embeds them and adds
// them to a store.
type Ingestor struct {
	embedder *Embedder
	store    Store
	splitter textsplitter.TextSplitter
	logger   *slog.Logger
}

type IngestorOptions struct {
	ChunkSize    int
	ChunkOverlap int
	Logger       *slog.Logger
}

func NewIngestor(embedder *Embedder, store Store, opts IngestorOptions) *Ingestor {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 800
	}
	if opts.ChunkOverlap < 0 || opts.ChunkOverlap >= opts.ChunkSize {
		opts.ChunkOverlap = 0
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Ingestor{
		embedder: embedder,
		store:    store,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(opts.ChunkSize),
			textsplitter.WithChunkOverlap(opts.ChunkOverlap),
		),
		logger: log,
	}
}

// IsSupported reports whether a file name has an extension the ingestor can
// parse.
func IsSupported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt", ".md":
		return true
	default:
		return false
	}
}

// IngestDocument ingests a PDF or plain text document and returns the number
// of chunks stored.
func (i *Ingestor) IngestDocument(ctx context.Context, name string, data []byte) (int, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return i.IngestPDF(ctx, name, data)
	case ".txt", ".md":
		return i.IngestText(ctx, name, string(data))
	default:
		return 0, apperrors.NewValidationError(
			"Unsupported document type: "+filepath.Ext(name),
			"UNSUPPORTED_DOCUMENT",
			"Upload a PDF, .txt or .md file")
	}
}

func (i *Ingestor) IngestPDF(ctx context.Context, source string, data []byte) (int, error) {
	loader := documentloaders.NewPDF(bytes.NewReader(data), int64(len(data)))
	docs, err := loader.LoadAndSplit(ctx, i.splitter)
	if err != nil {
		return 0, apperrors.NewIngestionError("Failed to parse PDF "+source, "DOCUMENT_PARSE_FAILED", err)
	}
	return i.ingest(ctx, source, docs)
}

func (i *Ingestor) IngestText(ctx context.Context, source, text string) (int, error) {
	loader := documentloaders.NewText(strings.NewReader(text))
	docs, err := loader.LoadAndSplit(ctx, i.splitter)
	if err != nil {
		return 0, apperrors.NewIngestionError("Failed to split document "+source, "DOCUMENT_PARSE_FAILED", err)
	}
	return i.ingest(ctx, source, docs)
}

// IngestDirectory ingests every supported file directly inside dir. Files
// that fail are logged and skipped.
func (i *Ingestor) IngestDirectory(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, apperrors.NewIngestionError("Failed to read documents directory", "DOCUMENTS_DIR_UNREADABLE", err)
	}

	total := 0
	for _, entry := range entries {
		if entry.IsDir() || !IsSupported(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			i.logger.WarnContext(ctx, "Skipping unreadable document", "path", path, "error", err)
			continue
		}
		n, err := i.IngestDocument(ctx, entry.Name(), data)
		if err != nil {
			i.logger.WarnContext(ctx, "Skipping document that failed to ingest", "path", path, "error", err)
			continue
		}
		total += n
	}
	return total, nil
}

func (i *Ingestor) ingest(ctx context.Context, source string, docs []schema.Document) (int, error) {
	ctx, span := tracer.Start(ctx, "rag.ingest")
	defer span.End()
	span.SetAttributes(
		attribute.String("document.source", source),
		attribute.String("rag.store", i.store.Name()),
	)

	texts := make([]string, 0, len(docs))
	for _, d := range docs {
		if text := strings.TrimSpace(d.PageContent); text != "" {
			texts = append(texts, text)
		}
	}
	if len(texts) == 0 {
		err := apperrors.NewIngestionError("Document "+source+" contains no text", "DOCUMENT_EMPTY", nil)
		span.SetStatus(codes.Error, "empty document")
		return 0, err
	}

	vectors, err := i.embedder.Embed(ctx, texts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "embedding failed")
		return 0, apperrors.NewIngestionError("Failed to embed document "+source, "EMBEDDING_FAILED", err)
	}

	chunks := make([]Chunk, len(texts))
	for idx, text := range texts {
		chunks[idx] = Chunk{
			ID:        uuid.NewString(),
			Source:    source,
			Index:     idx,
			Text:      text,
			Embedding: vectors[idx],
		}
	}

	if err := i.store.Add(ctx, chunks); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failed")
		return 0, apperrors.NewIngestionError("Failed to store document "+source, "STORE_FAILED", err)
	}

	span.SetAttributes(attribute.Int("rag.chunks", len(chunks)))
	metrics.RecordIngestion(ctx, i.store.Name(), len(chunks))
	i.logger.InfoContext(ctx, "Document ingested",
		"source", source,
		"chunks", len(chunks),
		"store", i.store.Name())
	return len(chunks), nil
}
