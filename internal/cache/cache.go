package cache

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spacesedan/sentibatch/internal/models"
)

const maxLineBytes = 1 << 20

// PathFor derives the cache file path for an input file:
// <dir>/<input stem>_cache.jsonl.
func PathFor(dir, inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+"_cache.jsonl")
}

// Cache is the append-only resume log: one JSON object per line, at most one
// line per record index. Any index present is considered done.
type Cache struct {
	path    string
	entries map[int]models.CacheEntry
	file    *os.File
}

// Load reads the cache file at path into memory and opens it for appending.
// A missing file starts an empty cache; malformed lines are skipped so a
// truncated tail from a crash does not poison the whole run.
func Load(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	entries := make(map[int]models.CacheEntry)
	if f, err := os.Open(path); err == nil {
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			var entry models.CacheEntry
			if err := json.Unmarshal([]byte(line), &entry); err != nil {
				slog.Warn("[Cache] Skipping malformed cache line",
					slog.Int("line", lineNo),
					slog.String("error", err.Error()))
				continue
			}
			entries[entry.Index] = entry
		}
		scanErr := scanner.Err()
		f.Close()
		if scanErr != nil {
			return nil, fmt.Errorf("reading cache: %w", scanErr)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening cache for append: %w", err)
	}

	return &Cache{path: path, entries: entries, file: f}, nil
}

func (c *Cache) Get(index int) (models.CacheEntry, bool) {
	entry, ok := c.entries[index]
	return entry, ok
}

func (c *Cache) Len() int { return len(c.entries) }

func (c *Cache) Path() string { return c.path }

// Append persists one completed record and syncs before returning, so a
// crash loses at most the request that was in flight. Appending an index
// that is already present is a bug in the caller.
func (c *Cache) Append(entry models.CacheEntry) error {
	if _, ok := c.entries[entry.Index]; ok {
		return fmt.Errorf("duplicate cache entry for index %d", entry.Index)
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry %d: %w", entry.Index, err)
	}
	if _, err := c.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing cache entry %d: %w", entry.Index, err)
	}
	if err := c.file.Sync(); err != nil {
		return fmt.Errorf("syncing cache: %w", err)
	}

	c.entries[entry.Index] = entry
	return nil
}

func (c *Cache) Close() error {
	return c.file.Close()
}
