package recipe

import (
	"github.com/socialchef/recipe-finder/internal/config"
	"github.com/socialchef/recipe-finder/internal/services/openai"
)

// NewChatBackend creates the chat backend described by the configuration.
// It wraps the primary backend in a FallbackBackend when fallback is enabled.
func NewChatBackend(cfg *config.Config) ChatBackend {
	primary := newChatModel(cfg, ProviderType(cfg.Chat.Provider), cfg.Chat.Model, cfg.Chat.DisplayName)

	if cfg.Chat.FallbackEnabled {
		secondary := newChatModel(cfg, ProviderType(cfg.Chat.FallbackProvider), cfg.Chat.FallbackModel, "")
		return NewFallbackBackend(primary, secondary)
	}

	return primary
}

func newChatModel(cfg *config.Config, provider ProviderType, model, displayName string) *ChatModel {
	switch provider {
	case ProviderGroq, ProviderCerebras, ProviderOpenAI:
	default:
		// Default to openai
		provider = ProviderOpenAI
	}

	opts := openai.Options{
		Provider: openai.Provider(provider),
		APIKey:   cfg.APIKeyFor(string(provider)),
	}
	if provider == ProviderOpenAI {
		opts.BaseURL = cfg.OpenAIBaseURL
	}
	if model == "" {
		model = config.DefaultChatModel(string(provider))
	}

	return NewChatModel(openai.NewClient(opts), ChatModelOptions{
		Provider:          provider,
		Model:             model,
		DisplayName:       displayName,
		MaxToolIterations: cfg.Chat.MaxToolIterations,
	})
}

// NewImageBackend returns the configured image backend, or nil when image
// generation is disabled.
func NewImageBackend(cfg *config.Config) ImageBackend {
	if !cfg.Image.Enabled {
		return nil
	}
	client := openai.NewClient(openai.Options{
		Provider: openai.ProviderOpenAI,
		APIKey:   cfg.OpenAIKey,
		BaseURL:  cfg.OpenAIBaseURL,
	})
	return NewImageModel(client, cfg.Image.Model, cfg.Image.Size, cfg.Image.DisplayName)
}
