package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ChunksTable holds ingested document chunks and their embeddings.
const ChunksTable = "recipe_chunks"

// execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SchemaStatements returns the DDL for an embedding table of the given
// vector dimension. Every statement is idempotent.
func SchemaStatements(dimensions int) []string {
	return []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id UUID PRIMARY KEY,
	source TEXT NOT NULL,
	chunk_index INTEGER NOT NULL,
	content TEXT NOT NULL,
	embedding vector(%d) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, ChunksTable, dimensions),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %[1]s_embedding_idx ON %[1]s USING hnsw (embedding vector_cosine_ops)", ChunksTable),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %[1]s_source_idx ON %[1]s (source)", ChunksTable),
	}
}

// Migrate creates the pgvector extension and the chunks table.
func Migrate(ctx context.Context, db execer, dimensions int) error {
	for _, stmt := range SchemaStatements(dimensions) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
