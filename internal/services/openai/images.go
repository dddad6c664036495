package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/socialchef/recipe-finder/internal/httpclient"
)

type ImageRequest struct {
	Prompt string
	Model  string
	Size   string
}

// GenerateImage creates one image and returns its URL.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	ctx = httpclient.WithProvider(ctx, c.Label())

	size := req.Size
	if size == "" {
		size = goopenai.CreateImageSize1024x1024
	}
	model := req.Model
	if model == "" {
		model = goopenai.CreateImageModelDallE3
	}

	resp, err := c.api.CreateImage(ctx, goopenai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          model,
		N:              1,
		Size:           size,
		ResponseFormat: goopenai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", wrapError(c.provider, "image generation", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("%s image generation: %w", c.Label(), ErrNoImage)
	}
	return resp.Data[0].URL, nil
}
