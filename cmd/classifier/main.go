package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/spacesedan/sentibatch/config"
	"github.com/spacesedan/sentibatch/internal/cache"
	"github.com/spacesedan/sentibatch/internal/classifier"
	"github.com/spacesedan/sentibatch/internal/clients"
	"github.com/spacesedan/sentibatch/internal/input"
	"github.com/spacesedan/sentibatch/internal/logging"
)

var (
	cfg   config.Config
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "classifier",
	Short: "Resumable batch comment classifier",
	Long: `classifier reads comments from a CSV or JSONL file, classifies each one
with an OpenAI-compatible endpoint (or offline with VADER), and writes the
merged results as a JSON array.

Completed records are appended to a line-delimited JSON cache, so an
interrupted run picks up where it left off and re-runs cost no API calls.`,
	Run: runClassifier,
}

func init() {
	rootCmd.Flags().StringVarP(&cfg.InputPath, "input", "i", "", "input CSV or JSONL file (required)")
	rootCmd.Flags().StringVarP(&cfg.OutputPath, "output", "o", "", "output JSON file (required)")
	rootCmd.Flags().StringVar(&cfg.CommentField, "comment-field", "comment", "name of the column/key holding the comment text")
	rootCmd.Flags().StringVar(&cfg.Engine, "engine", config.EngineOpenAI, "classification engine: openai or vader")
	rootCmd.Flags().StringVar(&cfg.APIKey, "api-key", "", "API key (falls back to OPENAI_API_KEY)")
	rootCmd.Flags().StringVar(&cfg.BaseURL, "base-url", "", "API endpoint override (falls back to OPENAI_BASE_URL)")
	rootCmd.Flags().StringVar(&cfg.Model, "model", "", "model name (falls back to DEFAULT_MODEL, then "+config.DefaultModel+")")
	rootCmd.Flags().StringVar(&cfg.PromptPath, "prompt", "prompts/comment_classify.txt", "system prompt file")
	rootCmd.Flags().IntVar(&cfg.MaxRetries, "max-retries", 3, "attempts per record before marking it failed")
	rootCmd.Flags().DurationVar(&cfg.RetryDelay, "retry-delay", 2*time.Second, "delay between retries of a failed request")
	rootCmd.Flags().DurationVar(&cfg.RequestDelay, "request-delay", 0, "fixed delay between successive requests")
	rootCmd.Flags().StringVar(&cfg.CacheDir, "cache-dir", "cache", "directory for the resume cache")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	_ = rootCmd.MarkFlagRequired("input")
	_ = rootCmd.MarkFlagRequired("output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runClassifier(cmd *cobra.Command, args []string) {
	config.LoadEnv()
	logging.InitLogger(debug)

	cfg.ApplyEnvFallbacks()
	if err := cfg.Validate(); err != nil {
		slog.Error("[Classifier] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	records, err := input.ReadRecords(cfg.InputPath, cfg.CommentField)
	if err != nil {
		slog.Error("[Classifier] Failed to read input", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cachePath := cache.PathFor(cfg.CacheDir, cfg.InputPath)
	store, err := cache.Load(cachePath)
	if err != nil {
		slog.Error("[Classifier] Failed to load cache", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("[Classifier] Cache loaded",
		slog.String("path", cachePath),
		slog.Int("entries", store.Len()))

	var engine classifier.Engine
	switch cfg.Engine {
	case config.EngineVader:
		engine = classifier.VaderEngine{}
	default:
		client := clients.NewOpenAIClient(cfg.APIKey, cfg.BaseURL)
		engine, err = classifier.NewOpenAIEngine(client, cfg.Model, cfg.PromptPath)
		if err != nil {
			slog.Error("[Classifier] Failed to build engine", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	runner := classifier.NewRunner(engine, store, cfg.MaxRetries, cfg.RetryDelay, cfg.RequestDelay)
	rows, summary, err := runner.Run(context.Background(), records)
	if err != nil {
		slog.Error("[Classifier] Batch aborted", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := classifier.WriteResults(cfg.OutputPath, rows); err != nil {
		slog.Error("[Classifier] Failed to write results", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("[Classifier] Batch complete",
		slog.Int("total", summary.Total),
		slog.Int("cached", summary.Cached),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
		slog.Int("skipped", summary.Skipped),
		slog.String("output", cfg.OutputPath))
}
