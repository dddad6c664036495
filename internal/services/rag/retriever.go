package rag

import (
	"context"
	"fmt"

	"github.com/socialchef/recipe-finder/internal/services/recipe"
)

// Retriever finds the stored chunks most relevant to a query. It implements
// recipe.ContentRetriever.
type Retriever struct {
	embedder    *Embedder
	store       Store
	maxResults  int
	minScore    float64
	displayName string
}

type RetrieverOptions struct {
	MaxResults  int
	MinScore    float64
	DisplayName string
}

func NewRetriever(embedder *Embedder, store Store, opts RetrieverOptions) *Retriever {
	display := opts.DisplayName
	if display == "" {
		display = fmt.Sprintf("OpenAI (Embedding: %s)", embedder.Model())
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 3
	}
	return &Retriever{
		embedder:    embedder,
		store:       store,
		maxResults:  maxResults,
		minScore:    opts.MinScore,
		displayName: display,
	}
}

func (r *Retriever) DisplayName() string {
	return r.displayName
}

func (r *Retriever) Retrieve(ctx context.Context, query string) ([]recipe.Content, error) {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	matches, err := r.store.Search(ctx, vector, r.maxResults, r.minScore)
	if err != nil {
		return nil, err
	}

	contents := make([]recipe.Content, 0, len(matches))
	for _, m := range matches {
		contents = append(contents, recipe.Content{
			Text:   m.Chunk.Text,
			Source: m.Chunk.Source,
			Score:  m.Score,
		})
	}
	return contents, nil
}

var _ recipe.ContentRetriever = (*Retriever)(nil)
