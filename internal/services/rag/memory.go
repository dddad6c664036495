package rag

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps chunks in process memory and scans all of them on every
// search. Contents are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks []Chunk
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Name() string {
	return "memory"
}

func (s *MemoryStore) Add(ctx context.Context, chunks []Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range chunks {
		if len(s.chunks) > 0 && len(c.Embedding) != len(s.chunks[0].Embedding) {
			return fmt.Errorf("embedding dimension %d does not match store dimension %d", len(c.Embedding), len(s.chunks[0].Embedding))
		}
		c.Embedding = append([]float32(nil), c.Embedding...)
		s.chunks = append(s.chunks, c)
	}
	return nil
}

func (s *MemoryStore) Search(ctx context.Context, query []float32, limit int, minScore float64) ([]Match, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]Match, 0, len(s.chunks))
	for _, c := range s.chunks {
		score := relevance(cosineSimilarity(query, c.Embedding))
		if score < minScore {
			continue
		}
		matches = append(matches, Match{Chunk: c, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Len reports the number of stored chunks.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}
