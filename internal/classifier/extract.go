package classifier

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/spacesedan/sentibatch/internal/models"
)

// ExtractJSON pulls the JSON object out of a model response, whether or not
// the model wrapped it in markdown fences or surrounded it with chatter.
// Order matters: a ```json fence wins, then the first-{-to-last-} span,
// then the trimmed raw text as a last resort.
func ExtractJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if start := strings.Index(cleaned, "```"); start >= 0 {
		inner := cleaned[start+3:]
		inner = strings.TrimPrefix(inner, "json")
		if end := strings.Index(inner, "```"); end >= 0 {
			return strings.TrimSpace(inner[:end])
		}
	}

	if start := strings.Index(cleaned, "{"); start >= 0 {
		if end := strings.LastIndex(cleaned, "}"); end > start {
			return strings.TrimSpace(cleaned[start : end+1])
		}
	}

	return cleaned
}

// ParseClassification decodes an engine response into a Classification.
// Returns nil when no JSON object can be recovered; the caller keeps the
// raw text either way.
func ParseClassification(raw string) *models.Classification {
	var c models.Classification
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &c); err != nil {
		slog.Warn("[Classifier] Response is not valid JSON, keeping raw text only",
			slog.String("error", err.Error()))
		return nil
	}
	return &c
}
