package classifier

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/spacesedan/sentibatch/internal/clients"
	"github.com/spacesedan/sentibatch/internal/models"
)

// Engine classifies a single comment. It returns the parsed classification
// (nil when the response was not valid JSON), the raw response text, and an
// error only for failures worth retrying (network, non-2xx, empty response).
type Engine interface {
	Classify(ctx context.Context, comment string) (*models.Classification, string, error)
}

const openAIMaxTokens = 1000

// OpenAIEngine sends the system prompt plus one comment per request to a
// chat-completion endpoint.
type OpenAIEngine struct {
	client       *clients.OpenAIClient
	model        string
	systemPrompt string
}

func NewOpenAIEngine(client *clients.OpenAIClient, model, promptPath string) (*OpenAIEngine, error) {
	data, err := os.ReadFile(promptPath)
	if err != nil {
		return nil, fmt.Errorf("reading system prompt: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return nil, fmt.Errorf("system prompt %s is empty", promptPath)
	}

	return &OpenAIEngine{
		client:       client,
		model:        model,
		systemPrompt: prompt,
	}, nil
}

func (e *OpenAIEngine) Classify(ctx context.Context, comment string) (*models.Classification, string, error) {
	resp, err := e.client.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: e.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: comment},
		},
		Temperature: 0,
		MaxTokens:   openAIMaxTokens,
	})
	if err != nil {
		return nil, "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, "", fmt.Errorf("empty response from model %s", e.model)
	}

	raw := resp.Choices[0].Message.Content
	// A non-JSON response is not retryable: keep the raw text for inspection.
	return ParseClassification(raw), raw, nil
}
