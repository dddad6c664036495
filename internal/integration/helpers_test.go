package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/socialchef/recipe-finder/internal/app"
	"github.com/socialchef/recipe-finder/internal/config"
	"github.com/socialchef/recipe-finder/internal/logger"
	"github.com/socialchef/recipe-finder/internal/services/rag"
)

const (
	testJWTSecret   = "integration-secret"
	testSupabaseURL = "https://test.supabase.co"
)

const pancakesJSON = `{"name":"Buttermilk Pancakes","description":"Grandma's recipe","ingredients":["2 eggs","200g flour","300ml buttermilk"],"instructions":["Whisk","Rest","Fry"],"imageUrl":""}`

// fakeOpenAI serves the chat completion and embedding endpoints. Every text
// embeds to the same unit vector so every stored chunk matches.
type fakeOpenAI struct {
	mu           sync.Mutex
	userMessages []string
	embedInputs  int
}

func (f *fakeOpenAI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/embeddings":
		var req struct {
			Input []string `json:"input"`
		}
		_ = json.Unmarshal(raw, &req)

		f.mu.Lock()
		f.embedInputs += len(req.Input)
		f.mu.Unlock()

		data := make([]map[string]any, len(req.Input))
		for i := range req.Input {
			data[i] = map[string]any{"object": "embedding", "index": i, "embedding": []float32{1, 0, 0}}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data, "model": "text-embedding-3-small"})

	case "/chat/completions":
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.Unmarshal(raw, &req)

		f.mu.Lock()
		for _, m := range req.Messages {
			if m.Role == "user" {
				f.userMessages = append(f.userMessages, m.Content)
			}
		}
		f.mu.Unlock()

		content, _ := json.Marshal(pancakesJSON)
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":` +
			string(content) + `},"finish_reason":"stop"}]}`))

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeOpenAI) lastUserMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.userMessages) == 0 {
		return ""
	}
	return f.userMessages[len(f.userMessages)-1]
}

func newTestConfig(t *testing.T, fake *fakeOpenAI) *config.Config {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Env:                  "test",
		ServiceName:          "recipe-finder-test",
		OpenAIKey:            "sk-test",
		OpenAIBaseURL:        server.URL,
		SupabaseURL:          testSupabaseURL,
		SupabaseJWTSecret:    testJWTSecret,
		FetchMaxAttempts:     2,
		AvailableIngredients: []string{"bacon", "onions"},
	}
	cfg.SetChatDefaults()
	cfg.SetImageDefaults()
	cfg.SetEmbeddingDefaults()
	cfg.SetRAGDefaults()
	return cfg
}

func newTestRAG(t *testing.T, cfg *config.Config) *rag.Components {
	t.Helper()
	comps, closeFn, err := app.NewRAG(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(closeFn)
	require.NotNil(t, comps)
	return comps
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
