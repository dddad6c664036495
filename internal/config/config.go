package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	DatabaseURL string
	RedisURL    string

	SupabaseURL            string
	SupabaseJWTSecret      string
	SupabaseServiceRoleKey string

	OpenAIKey     string
	OpenAIBaseURL string
	GroqKey       string
	CerebrasKey   string

	PromptsDir string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Port string

	// FetchMaxAttempts bounds how often the web layer runs a recipe fetch.
	// Attempts are immediate, there is no backoff between them.
	FetchMaxAttempts int

	AvailableIngredients []string

	Chat      ChatConfig
	Image     ImageConfig
	Embedding EmbeddingConfig
	RAG       RAGConfig
}

type ChatConfig struct {
	Provider          string `yaml:"provider"`
	Model             string `yaml:"model"`
	DisplayName       string `yaml:"display_name"`
	FallbackEnabled   bool   `yaml:"fallback_enabled"`
	FallbackProvider  string `yaml:"fallback_provider"`
	FallbackModel     string `yaml:"fallback_model"`
	MaxToolIterations int    `yaml:"max_tool_iterations"`
}

type ImageConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Model       string `yaml:"model"`
	DisplayName string `yaml:"display_name"`
	Size        string `yaml:"size"`
	// MirrorBucket, when set, copies generated images into Supabase storage
	// so the rendered URL outlives the provider's temporary link.
	MirrorBucket string `yaml:"mirror_bucket"`
}

type EmbeddingConfig struct {
	Model           string `yaml:"model"`
	DisplayName     string `yaml:"display_name"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
}

type RAGConfig struct {
	// Store is one of "none", "memory" or "pgvector".
	Store        string  `yaml:"store"`
	MaxResults   int     `yaml:"max_results"`
	MinScore     float64 `yaml:"min_score"`
	ChunkSize    int     `yaml:"chunk_size"`
	ChunkOverlap int     `yaml:"chunk_overlap"`
	DocumentsDir string  `yaml:"documents_dir"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		SupabaseURL:              os.Getenv("SUPABASE_URL"),
		SupabaseJWTSecret:        os.Getenv("SUPABASE_JWT_SECRET"),
		SupabaseServiceRoleKey:   os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		OpenAIKey:                os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:            os.Getenv("OPENAI_BASE_URL"),
		GroqKey:                  os.Getenv("GROQ_API_KEY"),
		CerebrasKey:              os.Getenv("CEREBRAS_API_KEY"),
		PromptsDir:               os.Getenv("PROMPTS_DIR"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
		Port:                     os.Getenv("PORT"),
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load from YAML file if available
	if err := cfg.LoadFromYAML(configPath); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "recipe-finder"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.FetchMaxAttempts <= 0 {
		cfg.FetchMaxAttempts = 2
	}
	if len(cfg.AvailableIngredients) == 0 {
		cfg.AvailableIngredients = DefaultAvailableIngredients()
	}

	cfg.SetChatDefaults()
	cfg.SetImageDefaults()
	cfg.SetEmbeddingDefaults()
	cfg.SetRAGDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultAvailableIngredients is what the pantry tool reports when nothing
// is configured.
func DefaultAvailableIngredients() []string {
	return []string{"bacon", "onions", "eggs", "butter", "milk", "garlic", "potatoes"}
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		AvailableIngredients []string        `yaml:"available_ingredients"`
		FetchMaxAttempts     int             `yaml:"fetch_max_attempts"`
		PromptsDir           string          `yaml:"prompts_dir"`
		Chat                 ChatConfig      `yaml:"chat"`
		Image                ImageConfig     `yaml:"image"`
		Embedding            EmbeddingConfig `yaml:"embedding"`
		RAG                  RAGConfig       `yaml:"rag"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if len(yamlConfig.AvailableIngredients) > 0 {
		c.AvailableIngredients = yamlConfig.AvailableIngredients
	}
	if yamlConfig.FetchMaxAttempts > 0 {
		c.FetchMaxAttempts = yamlConfig.FetchMaxAttempts
	}
	if yamlConfig.PromptsDir != "" && c.PromptsDir == "" {
		c.PromptsDir = yamlConfig.PromptsDir
	}

	// Apply chat config
	if yamlConfig.Chat.Provider != "" {
		c.Chat.Provider = yamlConfig.Chat.Provider
	}
	if yamlConfig.Chat.Model != "" {
		c.Chat.Model = yamlConfig.Chat.Model
	}
	if yamlConfig.Chat.DisplayName != "" {
		c.Chat.DisplayName = yamlConfig.Chat.DisplayName
	}
	if yamlConfig.Chat.FallbackEnabled {
		c.Chat.FallbackEnabled = yamlConfig.Chat.FallbackEnabled
	}
	if yamlConfig.Chat.FallbackProvider != "" {
		c.Chat.FallbackProvider = yamlConfig.Chat.FallbackProvider
	}
	if yamlConfig.Chat.FallbackModel != "" {
		c.Chat.FallbackModel = yamlConfig.Chat.FallbackModel
	}
	if yamlConfig.Chat.MaxToolIterations > 0 {
		c.Chat.MaxToolIterations = yamlConfig.Chat.MaxToolIterations
	}

	// Apply image config
	if yamlConfig.Image.Enabled {
		c.Image.Enabled = true
	}
	if yamlConfig.Image.Model != "" {
		c.Image.Model = yamlConfig.Image.Model
	}
	if yamlConfig.Image.DisplayName != "" {
		c.Image.DisplayName = yamlConfig.Image.DisplayName
	}
	if yamlConfig.Image.Size != "" {
		c.Image.Size = yamlConfig.Image.Size
	}
	if yamlConfig.Image.MirrorBucket != "" {
		c.Image.MirrorBucket = yamlConfig.Image.MirrorBucket
	}

	// Apply embedding config
	if yamlConfig.Embedding.Model != "" {
		c.Embedding.Model = yamlConfig.Embedding.Model
	}
	if yamlConfig.Embedding.DisplayName != "" {
		c.Embedding.DisplayName = yamlConfig.Embedding.DisplayName
	}
	if yamlConfig.Embedding.CacheTTLMinutes > 0 {
		c.Embedding.CacheTTLMinutes = yamlConfig.Embedding.CacheTTLMinutes
	}

	// Apply RAG config
	if yamlConfig.RAG.Store != "" {
		c.RAG.Store = yamlConfig.RAG.Store
	}
	if yamlConfig.RAG.MaxResults > 0 {
		c.RAG.MaxResults = yamlConfig.RAG.MaxResults
	}
	if yamlConfig.RAG.MinScore > 0 {
		c.RAG.MinScore = yamlConfig.RAG.MinScore
	}
	if yamlConfig.RAG.ChunkSize > 0 {
		c.RAG.ChunkSize = yamlConfig.RAG.ChunkSize
	}
	if yamlConfig.RAG.ChunkOverlap > 0 {
		c.RAG.ChunkOverlap = yamlConfig.RAG.ChunkOverlap
	}
	if yamlConfig.RAG.DocumentsDir != "" {
		c.RAG.DocumentsDir = yamlConfig.RAG.DocumentsDir
	}

	return nil
}

// applyEnvOverrides lets single env vars win over config.yaml for the
// settings most often changed per deployment.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("CHAT_PROVIDER"); v != "" {
		c.Chat.Provider = v
	}
	if v := os.Getenv("CHAT_MODEL"); v != "" {
		c.Chat.Model = v
	}
	if v := os.Getenv("IMAGE_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("IMAGE_ENABLED must be a boolean: %w", err)
		}
		c.Image.Enabled = enabled
	}
	if v := os.Getenv("IMAGE_MODEL"); v != "" {
		c.Image.Model = v
	}
	if v := os.Getenv("IMAGE_BUCKET"); v != "" {
		c.Image.MirrorBucket = v
	}
	if v := os.Getenv("RAG_STORE"); v != "" {
		c.RAG.Store = v
	}
	if v := os.Getenv("AVAILABLE_INGREDIENTS"); v != "" {
		c.AvailableIngredients = SplitList(v)
	}
	if v := os.Getenv("FETCH_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FETCH_MAX_ATTEMPTS must be an integer: %w", err)
		}
		c.FetchMaxAttempts = n
	}
	return nil
}

func (c *Config) SetChatDefaults() {
	if c.Chat.Provider == "" {
		c.Chat.Provider = "openai"
	}
	if c.Chat.Model == "" {
		c.Chat.Model = DefaultChatModel(c.Chat.Provider)
	}
	if c.Chat.FallbackEnabled && c.Chat.FallbackModel == "" {
		c.Chat.FallbackModel = DefaultChatModel(c.Chat.FallbackProvider)
	}
	if c.Chat.MaxToolIterations <= 0 {
		c.Chat.MaxToolIterations = 5
	}
}

func (c *Config) SetImageDefaults() {
	if c.Image.Model == "" {
		c.Image.Model = "dall-e-3"
	}
	if c.Image.Size == "" {
		c.Image.Size = "1024x1024"
	}
}

func (c *Config) SetEmbeddingDefaults() {
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.CacheTTLMinutes <= 0 {
		c.Embedding.CacheTTLMinutes = 24 * 60
	}
}

func (c *Config) SetRAGDefaults() {
	if c.RAG.Store == "" {
		c.RAG.Store = "memory"
	}
	if c.RAG.MaxResults <= 0 {
		c.RAG.MaxResults = 3
	}
	if c.RAG.ChunkSize <= 0 {
		c.RAG.ChunkSize = 800
	}
	if c.RAG.ChunkOverlap <= 0 {
		c.RAG.ChunkOverlap = 200
	}
}

// DefaultChatModel returns the model used for a provider when none is set.
func DefaultChatModel(provider string) string {
	switch provider {
	case "groq":
		return "llama-3.3-70b-versatile"
	case "cerebras":
		return "gpt-oss-120b"
	default:
		return "gpt-4o-mini"
	}
}

// APIKeyFor returns the API key configured for a chat provider.
func (c *Config) APIKeyFor(provider string) string {
	switch provider {
	case "groq":
		return c.GroqKey
	case "cerebras":
		return c.CerebrasKey
	default:
		return c.OpenAIKey
	}
}

// SplitList parses a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) validate() error {
	switch c.Chat.Provider {
	case "openai", "groq", "cerebras":
	default:
		return fmt.Errorf("unsupported chat provider %q", c.Chat.Provider)
	}
	if c.APIKeyFor(c.Chat.Provider) == "" {
		return fmt.Errorf("API key for chat provider %q is required", c.Chat.Provider)
	}
	if c.Chat.FallbackEnabled && c.APIKeyFor(c.Chat.FallbackProvider) == "" {
		return fmt.Errorf("API key for fallback chat provider %q is required", c.Chat.FallbackProvider)
	}
	switch c.RAG.Store {
	case "none", "memory":
	case "pgvector":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the pgvector store")
		}
	default:
		return fmt.Errorf("unsupported RAG store %q", c.RAG.Store)
	}
	if c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("rag chunk_overlap (%d) must be smaller than chunk_size (%d)", c.RAG.ChunkOverlap, c.RAG.ChunkSize)
	}
	if (c.Image.Enabled || c.RAG.Store != "none") && c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for image generation and embeddings")
	}
	if c.Image.MirrorBucket != "" && (c.SupabaseURL == "" || c.SupabaseServiceRoleKey == "") {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required to mirror images")
	}
	return nil
}
