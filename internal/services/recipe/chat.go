package recipe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/socialchef/recipe-finder/internal/errors"
	"github.com/socialchef/recipe-finder/internal/metrics"
	"github.com/socialchef/recipe-finder/internal/services/openai"
)

// retrievalPreamble introduces retrieved content appended to the user message.
const retrievalPreamble = "\n\nAnswer using the following information:\n"

// chatCompleter is the part of openai.Client the chat model needs.
type chatCompleter interface {
	Chat(ctx context.Context, req openai.ChatRequest) (string, error)
}

// ChatModel is a ChatBackend on top of an OpenAI compatible chat API.
type ChatModel struct {
	client            chatCompleter
	provider          ProviderType
	model             string
	displayName       string
	maxToolIterations int
}

type ChatModelOptions struct {
	Provider          ProviderType
	Model             string
	DisplayName       string
	MaxToolIterations int
}

func NewChatModel(client chatCompleter, opts ChatModelOptions) *ChatModel {
	display := opts.DisplayName
	if display == "" {
		display = fmt.Sprintf("%s (Chat: %s)", openai.Label(openai.Provider(opts.Provider)), opts.Model)
	}
	return &ChatModel{
		client:            client,
		provider:          opts.Provider,
		model:             opts.Model,
		displayName:       display,
		maxToolIterations: opts.MaxToolIterations,
	}
}

func (m *ChatModel) DisplayName() string {
	return m.displayName
}

// Complete retrieves grounding content when a retriever is set, runs the
// chat completion in JSON mode and decodes the answer.
func (m *ChatModel) Complete(ctx context.Context, req CompletionRequest) (Recipe, error) {
	user := req.UserMessage
	if req.Retriever != nil {
		augmented, err := augmentWithRetrieval(ctx, req.Retriever, user)
		if err != nil {
			return Recipe{}, apperrors.NewBackendError("Failed to retrieve recipe documents", "RETRIEVAL_FAILED", err)
		}
		user = augmented
	}

	tools := make([]openai.ToolFunc, 0, len(req.Tools))
	for _, t := range req.Tools {
		tools = append(tools, openai.ToolFunc{
			Name:        t.Name(),
			Description: t.Description(),
			Call:        t.Call,
		})
	}

	content, err := m.client.Chat(ctx, openai.ChatRequest{
		Model:             m.model,
		System:            req.SystemMessage,
		User:              user,
		Tools:             tools,
		JSONMode:          true,
		MaxToolIterations: m.maxToolIterations,
	})
	if err != nil {
		return Recipe{}, err
	}

	recipe, err := DecodeRecipe(content)
	if err != nil {
		return Recipe{}, apperrors.NewBackendError("Chat model returned an invalid recipe", "RECIPE_DECODE_FAILED", err)
	}
	return recipe, nil
}

func augmentWithRetrieval(ctx context.Context, retriever ContentRetriever, user string) (string, error) {
	start := time.Now()
	contents, err := retriever.Retrieve(ctx, user)
	metrics.RetrievalDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.Bool("error", err != nil),
	))
	if err != nil {
		return "", err
	}
	if len(contents) == 0 {
		return user, nil
	}

	texts := make([]string, 0, len(contents))
	for _, c := range contents {
		texts = append(texts, c.Text)
	}
	return user + retrievalPreamble + strings.Join(texts, "\n\n"), nil
}
