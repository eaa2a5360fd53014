package classifier

import (
	"context"
	"encoding/json"

	"github.com/spacesedan/sentibatch/internal/models"
	"github.com/spacesedan/sentibatch/internal/sentiment"
)

// VaderEngine classifies offline with VADER. It needs no API key, never
// fails, and its raw response is the compact JSON of its own result.
type VaderEngine struct{}

func (VaderEngine) Classify(_ context.Context, comment string) (*models.Classification, string, error) {
	c := sentiment.Analyze(comment)
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, "", err
	}
	return &c, string(raw), nil
}
