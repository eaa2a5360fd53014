package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EngineOpenAI = "openai"
	EngineVader  = "vader"

	DefaultModel = "gpt-4o-mini"
)

// Config holds everything a classification run needs, resolved from CLI
// flags with environment fallbacks before the run starts.
type Config struct {
	InputPath    string
	OutputPath   string
	CommentField string

	Engine string

	APIKey  string
	BaseURL string
	Model   string

	PromptPath   string
	MaxRetries   int
	RetryDelay   time.Duration
	RequestDelay time.Duration
	CacheDir     string
}

// ApplyEnvFallbacks fills API settings left empty on the command line from
// OPENAI_API_KEY, OPENAI_BASE_URL and DEFAULT_MODEL.
func (c *Config) ApplyEnvFallbacks() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.BaseURL == "" {
		c.BaseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if c.Model == "" {
		c.Model = os.Getenv("DEFAULT_MODEL")
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
}

// Validate checks everything that must hold before the first request goes
// out. The OpenAI engine needs an API key and a readable prompt file; the
// VADER engine needs neither.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1, got %d", c.MaxRetries)
	}
	if _, err := os.Stat(c.InputPath); err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	switch c.Engine {
	case EngineOpenAI:
		if c.APIKey == "" {
			return fmt.Errorf("missing API key: pass --api-key or set OPENAI_API_KEY")
		}
		if _, err := os.Stat(c.PromptPath); err != nil {
			return fmt.Errorf("prompt file: %w", err)
		}
	case EngineVader:
		// offline, nothing to check
	default:
		return fmt.Errorf("unknown engine %q (want %q or %q)", c.Engine, EngineOpenAI, EngineVader)
	}
	return nil
}
