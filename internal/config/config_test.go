package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	return configPath
}

func TestLoadChatConfig(t *testing.T) {
	configPath := writeConfig(t, `chat:
  provider: groq
  model: llama-3.1-8b-instant
  display_name: Groq
  fallback_enabled: true
  fallback_provider: openai`)

	cfg := &Config{}
	if err := cfg.LoadFromYAML(configPath); err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}

	if cfg.Chat.Provider != "groq" {
		t.Errorf("Expected provider to be 'groq', got '%s'", cfg.Chat.Provider)
	}
	if cfg.Chat.Model != "llama-3.1-8b-instant" {
		t.Errorf("Expected model to be 'llama-3.1-8b-instant', got '%s'", cfg.Chat.Model)
	}
	if cfg.Chat.DisplayName != "Groq" {
		t.Errorf("Expected display name 'Groq', got '%s'", cfg.Chat.DisplayName)
	}
	if !cfg.Chat.FallbackEnabled {
		t.Errorf("Expected fallback_enabled to be true")
	}
	if cfg.Chat.FallbackProvider != "openai" {
		t.Errorf("Expected fallback_provider to be 'openai', got '%s'", cfg.Chat.FallbackProvider)
	}
}

func TestLoadRAGAndImageConfig(t *testing.T) {
	configPath := writeConfig(t, `image:
  enabled: true
  model: dall-e-2
  size: 512x512
rag:
  store: pgvector
  max_results: 5
  chunk_size: 1000
  chunk_overlap: 100
available_ingredients:
  - flour
  - sugar
fetch_max_attempts: 3`)

	cfg := &Config{}
	if err := cfg.LoadFromYAML(configPath); err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}

	if !cfg.Image.Enabled || cfg.Image.Model != "dall-e-2" || cfg.Image.Size != "512x512" {
		t.Errorf("Unexpected image config: %+v", cfg.Image)
	}
	if cfg.RAG.Store != "pgvector" || cfg.RAG.MaxResults != 5 {
		t.Errorf("Unexpected rag config: %+v", cfg.RAG)
	}
	if cfg.RAG.ChunkSize != 1000 || cfg.RAG.ChunkOverlap != 100 {
		t.Errorf("Unexpected chunking: %d/%d", cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	}
	if !reflect.DeepEqual(cfg.AvailableIngredients, []string{"flour", "sugar"}) {
		t.Errorf("Unexpected available ingredients: %v", cfg.AvailableIngredients)
	}
	if cfg.FetchMaxAttempts != 3 {
		t.Errorf("Expected fetch_max_attempts 3, got %d", cfg.FetchMaxAttempts)
	}
}

func TestLoadFromYAMLMissingFile(t *testing.T) {
	cfg := &Config{}
	if err := cfg.LoadFromYAML(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Errorf("Missing file should not be an error, got %v", err)
	}
}

func TestLoadFromYAMLInvalid(t *testing.T) {
	configPath := writeConfig(t, "chat: [unclosed")

	cfg := &Config{}
	if err := cfg.LoadFromYAML(configPath); err == nil {
		t.Error("Expected parse error for invalid YAML")
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetChatDefaults()
	cfg.SetImageDefaults()
	cfg.SetEmbeddingDefaults()
	cfg.SetRAGDefaults()

	if cfg.Chat.Provider != "openai" || cfg.Chat.Model != "gpt-4o-mini" {
		t.Errorf("Unexpected chat defaults: %+v", cfg.Chat)
	}
	if cfg.Chat.MaxToolIterations != 5 {
		t.Errorf("Expected 5 tool iterations, got %d", cfg.Chat.MaxToolIterations)
	}
	if cfg.Image.Enabled {
		t.Error("Image generation should be disabled by default")
	}
	if cfg.Image.Model != "dall-e-3" {
		t.Errorf("Expected dall-e-3, got %s", cfg.Image.Model)
	}
	if cfg.RAG.Store != "memory" || cfg.RAG.MaxResults != 3 {
		t.Errorf("Unexpected rag defaults: %+v", cfg.RAG)
	}
	if cfg.RAG.ChunkSize != 800 || cfg.RAG.ChunkOverlap != 200 {
		t.Errorf("Expected 800/200 chunking, got %d/%d", cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CHAT_PROVIDER", "openai")
	t.Setenv("IMAGE_ENABLED", "true")
	t.Setenv("RAG_STORE", "none")
	t.Setenv("AVAILABLE_INGREDIENTS", "bacon, onions,,")
	t.Setenv("FETCH_MAX_ATTEMPTS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Image.Enabled {
		t.Error("Expected IMAGE_ENABLED to enable image generation")
	}
	if cfg.RAG.Store != "none" {
		t.Errorf("Expected rag store none, got %s", cfg.RAG.Store)
	}
	if !reflect.DeepEqual(cfg.AvailableIngredients, []string{"bacon", "onions"}) {
		t.Errorf("Unexpected available ingredients: %v", cfg.AvailableIngredients)
	}
	if cfg.FetchMaxAttempts != 2 {
		t.Errorf("Expected default of 2 attempts, got %d", cfg.FetchMaxAttempts)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid openai",
			cfg: Config{
				OpenAIKey: "sk",
				Chat:      ChatConfig{Provider: "openai"},
				RAG:       RAGConfig{Store: "memory", ChunkSize: 800, ChunkOverlap: 200},
			},
		},
		{
			name: "missing provider key",
			cfg: Config{
				OpenAIKey: "sk",
				Chat:      ChatConfig{Provider: "groq"},
				RAG:       RAGConfig{Store: "memory", ChunkSize: 800, ChunkOverlap: 200},
			},
			wantErr: true,
		},
		{
			name: "unknown provider",
			cfg: Config{
				OpenAIKey: "sk",
				Chat:      ChatConfig{Provider: "mistral"},
				RAG:       RAGConfig{Store: "none", ChunkSize: 800, ChunkOverlap: 200},
			},
			wantErr: true,
		},
		{
			name: "pgvector without database",
			cfg: Config{
				OpenAIKey: "sk",
				Chat:      ChatConfig{Provider: "openai"},
				RAG:       RAGConfig{Store: "pgvector", ChunkSize: 800, ChunkOverlap: 200},
			},
			wantErr: true,
		},
		{
			name: "groq without openai key and no embeddings",
			cfg: Config{
				GroqKey: "gsk",
				Chat:    ChatConfig{Provider: "groq"},
				RAG:     RAGConfig{Store: "none", ChunkSize: 800, ChunkOverlap: 200},
			},
		},
		{
			name: "embeddings need openai key",
			cfg: Config{
				GroqKey: "gsk",
				Chat:    ChatConfig{Provider: "groq"},
				RAG:     RAGConfig{Store: "memory", ChunkSize: 800, ChunkOverlap: 200},
			},
			wantErr: true,
		},
		{
			name: "overlap larger than chunk",
			cfg: Config{
				OpenAIKey: "sk",
				Chat:      ChatConfig{Provider: "openai"},
				RAG:       RAGConfig{Store: "memory", ChunkSize: 100, ChunkOverlap: 200},
			},
			wantErr: true,
		},
		{
			name: "mirror bucket needs supabase",
			cfg: Config{
				OpenAIKey: "sk",
				Chat:      ChatConfig{Provider: "openai"},
				Image:     ImageConfig{Enabled: true, MirrorBucket: "recipe-images"},
				RAG:       RAGConfig{Store: "none", ChunkSize: 800, ChunkOverlap: 200},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" eggs ,flour,, milk ")
	want := []string{"eggs", "flour", "milk"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitList() = %v, want %v", got, want)
	}
	if SplitList("") != nil {
		t.Error("SplitList(\"\") should be nil")
	}
}
