package clients

import (
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	openAIRequestTimeout = 60 * time.Second // Timeout for individual OpenAI API requests
)

type OpenAIClient struct {
	Client *openai.Client
}

// NewOpenAIClient builds a chat-completion client. baseURL is optional and
// overrides the official endpoint when talking to an OpenAI-compatible
// proxy or a test stub.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	config.HTTPClient = &http.Client{
		Timeout: openAIRequestTimeout,
	}

	slog.Info("[OpenAIClient] OpenAI client initialized",
		slog.String("base_url", config.BaseURL),
		slog.Duration("timeout", openAIRequestTimeout))

	return &OpenAIClient{Client: openai.NewClientWithConfig(config)}
}
