package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/sentibatch/internal/cache"
	"github.com/spacesedan/sentibatch/internal/models"
)

// Runner drives the batch: one record at a time, cache first, then the
// engine with bounded retries, appending to the cache after every success.
type Runner struct {
	engine       Engine
	cache        *cache.Cache
	maxRetries   int
	retryDelay   time.Duration
	requestDelay time.Duration
}

// Summary counts how each record was resolved.
type Summary struct {
	Total     int
	Cached    int
	Succeeded int
	Failed    int
	Skipped   int
}

func NewRunner(engine Engine, c *cache.Cache, maxRetries int, retryDelay, requestDelay time.Duration) *Runner {
	return &Runner{
		engine:       engine,
		cache:        c,
		maxRetries:   maxRetries,
		retryDelay:   retryDelay,
		requestDelay: requestDelay,
	}
}

// Run processes every record and returns the merged result rows. Records
// already in the cache cost no engine call; records whose retries are
// exhausted come back with the failure marker set and are NOT cached, so
// the next run retries them. A cache write failure aborts the batch since
// resumability is gone at that point.
func (r *Runner) Run(ctx context.Context, records []models.Record) ([]models.ResultRow, Summary, error) {
	summary := Summary{Total: len(records)}
	results := make([]models.ResultRow, 0, len(records))
	requested := false

	for i, rec := range records {
		if entry, ok := r.cache.Get(rec.Index); ok {
			slog.Info("[Runner] Cached, skipping",
				slog.Int("record", i+1),
				slog.Int("total", summary.Total))
			results = append(results, models.ResultRow{CacheEntry: entry})
			summary.Cached++
			continue
		}

		if strings.TrimSpace(rec.Comment) == "" {
			slog.Debug("[Runner] Empty comment, skipping",
				slog.Int("record", i+1),
				slog.Int("total", summary.Total))
			summary.Skipped++
			continue
		}

		// fixed spacing between successive requests, regardless of outcome
		if requested && r.requestDelay > 0 {
			if err := sleepCtx(ctx, r.requestDelay); err != nil {
				return results, summary, err
			}
		}
		requested = true

		entry, err := r.classifyWithRetry(ctx, rec, i+1, summary.Total)
		if err != nil {
			if ctx.Err() != nil {
				return results, summary, ctx.Err()
			}
			slog.Error("[Runner] Record failed, continuing",
				slog.Int("record", i+1),
				slog.Int("total", summary.Total),
				slog.String("error", err.Error()))
			results = append(results, models.ResultRow{
				CacheEntry: models.CacheEntry{
					Index:   rec.Index,
					Comment: rec.Comment,
					Meta:    rec.Meta,
				},
				Error: err.Error(),
			})
			summary.Failed++
			continue
		}

		if err := r.cache.Append(*entry); err != nil {
			return results, summary, fmt.Errorf("persisting record %d: %w", rec.Index, err)
		}
		results = append(results, models.ResultRow{CacheEntry: *entry})
		summary.Succeeded++
	}

	return results, summary, nil
}

func (r *Runner) classifyWithRetry(ctx context.Context, rec models.Record, pos, total int) (*models.CacheEntry, error) {
	var lastErr error

	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		slog.Info("[Runner] Classifying",
			slog.Int("record", pos),
			slog.Int("total", total),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", r.maxRetries))

		parsed, raw, err := r.engine.Classify(ctx, rec.Comment)
		if err == nil {
			return &models.CacheEntry{
				Index:          rec.Index,
				Comment:        rec.Comment,
				RawResponse:    raw,
				Classification: parsed,
				Meta:           rec.Meta,
			}, nil
		}

		lastErr = err
		slog.Warn("[Runner] Classification attempt failed",
			slog.Int("record", pos),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < r.maxRetries && r.retryDelay > 0 {
			if err := sleepCtx(ctx, r.retryDelay); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("classification failed after %d attempts: %w", r.maxRetries, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
