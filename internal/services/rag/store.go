package rag

import (
	"context"
	"math"
)

// Chunk is a piece of an ingested document together with its embedding.
type Chunk struct {
	ID        string
	Source    string
	Index     int
	Text      string
	Embedding []float32
}

// Match is a stored chunk scored against a query. Score is a relevance in
// [0, 1], where 1 means the vectors point the same way.
type Match struct {
	Chunk Chunk
	Score float64
}

// Store persists chunks and answers nearest-neighbour queries.
type Store interface {
	Add(ctx context.Context, chunks []Chunk) error
	// Search returns at most limit matches with a score of at least minScore,
	// best match first.
	Search(ctx context.Context, query []float32, limit int, minScore float64) ([]Match, error)
	Name() string
}

// relevance maps a cosine similarity in [-1, 1] onto [0, 1].
func relevance(cosine float64) float64 {
	return (cosine + 1) / 2
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
