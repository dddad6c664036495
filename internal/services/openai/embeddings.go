package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/socialchef/recipe-finder/internal/httpclient"
)

// Embed returns one embedding per input text, in input order.
func (c *Client) Embed(ctx context.Context, model string, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	ctx = httpclient.WithProvider(ctx, c.Label())

	resp, err := c.api.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: texts,
		Model: goopenai.EmbeddingModel(model),
	})
	if err != nil {
		return nil, wrapError(c.provider, "embedding", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%s embedding: got %d vectors for %d inputs: %w", c.Label(), len(resp.Data), len(texts), ErrNoEmbedding)
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("%s embedding: index %d out of range", c.Label(), d.Index)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}
