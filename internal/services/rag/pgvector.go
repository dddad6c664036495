package rag

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"github.com/socialchef/recipe-finder/internal/db"
)

// pgxConn is the subset of *pgxpool.Pool used by PgVectorStore.
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PgVectorStore keeps chunks in Postgres using the pgvector extension.
type PgVectorStore struct {
	conn pgxConn
}

func NewPgVectorStore(conn pgxConn) *PgVectorStore {
	return &PgVectorStore{conn: conn}
}

func (s *PgVectorStore) Name() string {
	return "pgvector"
}

// Migrate creates the chunks table for vectors of the given dimension.
func (s *PgVectorStore) Migrate(ctx context.Context, dimensions int) error {
	return db.Migrate(ctx, s.conn, dimensions)
}

var insertChunkSQL = fmt.Sprintf(
	"INSERT INTO %s (id, source, chunk_index, content, embedding) VALUES ($1, $2, $3, $4, $5)",
	db.ChunksTable)

var searchChunksSQL = fmt.Sprintf(`SELECT id::text, source, chunk_index, content, 1 - (embedding <=> $1) AS similarity
FROM %s
ORDER BY embedding <=> $1
LIMIT $2`, db.ChunksTable)

func (s *PgVectorStore) Add(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range chunks {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		batch.Queue(insertChunkSQL, id, c.Source, c.Index, c.Text, pgvector.NewVector(c.Embedding))
	}

	results := s.conn.SendBatch(ctx, batch)
	defer results.Close()

	for i := range chunks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert chunk %d of %s: %w", chunks[i].Index, chunks[i].Source, err)
		}
	}
	return nil
}

func (s *PgVectorStore) Search(ctx context.Context, query []float32, limit int, minScore float64) ([]Match, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.conn.Query(ctx, searchChunksSQL, pgvector.NewVector(query), limit)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var (
			c          Chunk
			similarity float64
		)
		if err := rows.Scan(&c.ID, &c.Source, &c.Index, &c.Text, &similarity); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}

		score := relevance(similarity)
		if score < minScore {
			continue
		}
		matches = append(matches, Match{Chunk: c, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	return matches, nil
}
