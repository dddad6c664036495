package recipe

import (
	"context"
	"fmt"

	"github.com/socialchef/recipe-finder/internal/services/openai"
)

type imageGenerator interface {
	GenerateImage(ctx context.Context, req openai.ImageRequest) (string, error)
}

// ImageModel is an ImageBackend on top of the OpenAI image API.
type ImageModel struct {
	client      imageGenerator
	model       string
	size        string
	displayName string
}

func NewImageModel(client imageGenerator, model, size, displayName string) *ImageModel {
	if displayName == "" {
		displayName = fmt.Sprintf("OpenAI (Image: %s)", model)
	}
	return &ImageModel{client: client, model: model, size: size, displayName: displayName}
}

func (m *ImageModel) DisplayName() string {
	return m.displayName
}

func (m *ImageModel) Generate(ctx context.Context, prompt string) (Image, error) {
	url, err := m.client.GenerateImage(ctx, openai.ImageRequest{
		Prompt: prompt,
		Model:  m.model,
		Size:   m.size,
	})
	if err != nil {
		return Image{}, err
	}
	return Image{URL: url}, nil
}

// imageUploader stores a remote image and returns its public URL.
type imageUploader interface {
	MirrorImage(ctx context.Context, sourceURL string) (string, error)
}

// MirroredImageBackend copies every generated image into storage so the
// returned URL does not expire with the provider's temporary link.
type MirroredImageBackend struct {
	next     ImageBackend
	uploader imageUploader
}

func NewMirroredImageBackend(next ImageBackend, uploader imageUploader) *MirroredImageBackend {
	return &MirroredImageBackend{next: next, uploader: uploader}
}

func (m *MirroredImageBackend) DisplayName() string {
	return m.next.DisplayName()
}

func (m *MirroredImageBackend) Generate(ctx context.Context, prompt string) (Image, error) {
	img, err := m.next.Generate(ctx, prompt)
	if err != nil {
		return Image{}, err
	}
	url, err := m.uploader.MirrorImage(ctx, img.URL)
	if err != nil {
		return Image{}, fmt.Errorf("failed to mirror generated image: %w", err)
	}
	return Image{URL: url}, nil
}
