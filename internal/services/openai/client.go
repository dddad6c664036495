package openai

import (
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/socialchef/recipe-finder/internal/httpclient"
)

// Provider identifies an OpenAI compatible API.
type Provider string

const (
	ProviderOpenAI   Provider = "openai"
	ProviderGroq     Provider = "groq"
	ProviderCerebras Provider = "cerebras"
)

var defaultBaseURLs = map[Provider]string{
	ProviderOpenAI:   "https://api.openai.com/v1",
	ProviderGroq:     "https://api.groq.com/openai/v1",
	ProviderCerebras: "https://api.cerebras.ai/v1",
}

var labels = map[Provider]string{
	ProviderOpenAI:   "OpenAI",
	ProviderGroq:     "Groq",
	ProviderCerebras: "Cerebras",
}

// Options configures a Client. BaseURL overrides the provider default and
// HTTPClient defaults to the instrumented client.
type Options struct {
	Provider   Provider
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client talks to an OpenAI compatible API for chat, images and embeddings.
type Client struct {
	api      *goopenai.Client
	provider Provider
}

func NewClient(opts Options) *Client {
	if opts.Provider == "" {
		opts.Provider = ProviderOpenAI
	}

	cfg := goopenai.DefaultConfig(opts.APIKey)
	switch {
	case opts.BaseURL != "":
		cfg.BaseURL = opts.BaseURL
	case defaultBaseURLs[opts.Provider] != "":
		cfg.BaseURL = defaultBaseURLs[opts.Provider]
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = httpclient.WrapClient(opts.HTTPClient)
	} else {
		cfg.HTTPClient = httpclient.InstrumentedClient
	}

	return &Client{
		api:      goopenai.NewClientWithConfig(cfg),
		provider: opts.Provider,
	}
}

func (c *Client) Provider() Provider {
	return c.provider
}

// Label is the human readable provider name, e.g. "Groq".
func (c *Client) Label() string {
	return Label(c.provider)
}

// Label returns the human readable name for a provider.
func Label(p Provider) string {
	if l, ok := labels[p]; ok {
		return l
	}
	return string(p)
}
