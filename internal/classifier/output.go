package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spacesedan/sentibatch/internal/models"
)

// WriteResults writes the merged rows as an indented JSON array ordered by
// record index, creating parent directories as needed.
func WriteResults(path string, rows []models.ResultRow) error {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Index < rows[j].Index })

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}
