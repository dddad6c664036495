package openai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/socialchef/recipe-finder/internal/httpclient"
	"github.com/socialchef/recipe-finder/internal/metrics"
)

const defaultMaxToolIterations = 5

// ToolFunc is a function the model may call while answering. Arguments are
// the raw JSON arguments chosen by the model; the result is sent back as the
// tool message content.
type ToolFunc struct {
	Name        string
	Description string
	// Parameters is a JSON schema. Nil means the tool takes no arguments.
	Parameters any
	Call       func(ctx context.Context, arguments string) (string, error)
}

type ChatRequest struct {
	Model             string
	System            string
	User              string
	Tools             []ToolFunc
	JSONMode          bool
	MaxToolIterations int
}

// Chat sends one system and one user message and returns the final assistant
// content. Tool calls are executed and answered until the model replies
// without requesting more, bounded by MaxToolIterations.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	startTime := time.Now()
	defer func() {
		metrics.AIGenerationDuration.Record(ctx, time.Since(startTime).Seconds(), metric.WithAttributes(
			attribute.String("provider", string(c.provider)),
			attribute.String("model", req.Model),
		))
	}()

	ctx = httpclient.WithProvider(ctx, c.Label())

	messages := make([]goopenai.ChatCompletionMessage, 0, 4)
	if req.System != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: req.User})

	tools, byName := toolDefinitions(req.Tools)

	maxIterations := req.MaxToolIterations
	if maxIterations <= 0 {
		maxIterations = defaultMaxToolIterations
	}

	for iteration := 0; iteration <= maxIterations; iteration++ {
		completion := goopenai.ChatCompletionRequest{
			Model:    req.Model,
			Messages: messages,
			Tools:    tools,
		}
		if req.JSONMode {
			completion.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
				Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
			}
		}

		resp, err := c.api.CreateChatCompletion(ctx, completion)
		if err != nil {
			return "", wrapError(c.provider, "chat completion", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%s chat completion: %w", c.Label(), ErrNoResponse)
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			messages = append(messages, goopenai.ChatCompletionMessage{
				Role:       goopenai.ChatMessageRoleTool,
				Content:    invokeTool(ctx, byName, call),
				ToolCallID: call.ID,
			})
		}
	}

	return "", fmt.Errorf("%s chat completion: %w (%d)", c.Label(), ErrToolLoopExceeded, maxIterations)
}

func toolDefinitions(funcs []ToolFunc) ([]goopenai.Tool, map[string]ToolFunc) {
	if len(funcs) == 0 {
		return nil, nil
	}
	tools := make([]goopenai.Tool, 0, len(funcs))
	byName := make(map[string]ToolFunc, len(funcs))
	for _, f := range funcs {
		params := f.Parameters
		if params == nil {
			params = jsonschema.Definition{
				Type:       jsonschema.Object,
				Properties: map[string]jsonschema.Definition{},
			}
		}
		tools = append(tools, goopenai.Tool{
			Type: goopenai.ToolTypeFunction,
			Function: &goopenai.FunctionDefinition{
				Name:        f.Name,
				Description: f.Description,
				Parameters:  params,
			},
		})
		byName[f.Name] = f
	}
	return tools, byName
}

// invokeTool runs a requested tool. Failures are reported back to the model
// as the tool result rather than aborting the conversation.
func invokeTool(ctx context.Context, byName map[string]ToolFunc, call goopenai.ToolCall) string {
	tool, ok := byName[call.Function.Name]
	if !ok {
		slog.WarnContext(ctx, "Model requested unknown tool", "tool", call.Function.Name)
		return fmt.Sprintf(`{"error":"unknown tool %q"}`, call.Function.Name)
	}
	result, err := tool.Call(ctx, call.Function.Arguments)
	if err != nil {
		slog.WarnContext(ctx, "Tool call failed", "tool", call.Function.Name, "error", err)
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return result
}
