package recipe

import "context"

// ProviderType represents the type of AI provider
type ProviderType string

const (
	ProviderGroq     ProviderType = "groq"
	ProviderCerebras ProviderType = "cerebras"
	ProviderOpenAI   ProviderType = "openai"
)

// CompletionRequest is one recipe request to a chat backend. Tools and
// Retriever are optional.
type CompletionRequest struct {
	SystemMessage string
	UserMessage   string
	Tools         []Tool
	Retriever     ContentRetriever
}

// ChatBackend turns a prompt into a structured Recipe.
type ChatBackend interface {
	Complete(ctx context.Context, req CompletionRequest) (Recipe, error)
	DisplayName() string
}

// Tool is a function the chat model may call while answering.
type Tool interface {
	Name() string
	Description() string
	// Call runs the tool with the model supplied JSON arguments and returns
	// the JSON result handed back to the model.
	Call(ctx context.Context, arguments string) (string, error)
}

// Content is a piece of retrieved text used to ground an answer.
type Content struct {
	Text   string
	Source string
	Score  float64
}

// ContentRetriever finds content relevant to a query.
type ContentRetriever interface {
	Retrieve(ctx context.Context, query string) ([]Content, error)
}

// Image is a generated picture.
type Image struct {
	URL string
}

// ImageBackend generates a picture from a text prompt.
type ImageBackend interface {
	Generate(ctx context.Context, prompt string) (Image, error)
	DisplayName() string
}
