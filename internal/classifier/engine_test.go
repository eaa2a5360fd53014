package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spacesedan/sentibatch/internal/cache"
	"github.com/spacesedan/sentibatch/internal/clients"
	"github.com/spacesedan/sentibatch/internal/models"
)

// chatStub mimics an OpenAI-compatible /chat/completions endpoint returning
// a fixed message body, counting the requests it serves.
func chatStub(t *testing.T, content string, requests *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		resp := map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encoding stub response: %v", err)
		}
	}))
}

func writePrompt(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(path, []byte("Classify the sentiment of each comment as JSON."), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenAIEngineClassify(t *testing.T) {
	var requests int
	stub := chatStub(t, "```json\n{\"sentiment\":\"positive\",\"confidence\":0.95,\"keywords\":[\"love\"]}\n```", &requests)
	defer stub.Close()

	client := clients.NewOpenAIClient("test-key", stub.URL+"/v1")
	engine, err := NewOpenAIEngine(client, "gpt-4o-mini", writePrompt(t))
	if err != nil {
		t.Fatalf("NewOpenAIEngine: %v", err)
	}

	parsed, raw, err := engine.Classify(context.Background(), "I love this game")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if requests != 1 {
		t.Errorf("stub served %d requests, want 1", requests)
	}
	if parsed == nil || parsed.Sentiment != "positive" || parsed.Confidence != 0.95 {
		t.Errorf("parsed = %+v", parsed)
	}
	if raw == "" {
		t.Error("raw response not preserved")
	}
}

func TestOpenAIEngineNonJSONResponse(t *testing.T) {
	var requests int
	stub := chatStub(t, "I'd rather chat about the weather.", &requests)
	defer stub.Close()

	client := clients.NewOpenAIClient("test-key", stub.URL+"/v1")
	engine, err := NewOpenAIEngine(client, "gpt-4o-mini", writePrompt(t))
	if err != nil {
		t.Fatal(err)
	}

	parsed, raw, err := engine.Classify(context.Background(), "meh")
	if err != nil {
		t.Fatalf("non-JSON response must not be an error: %v", err)
	}
	if parsed != nil {
		t.Errorf("parsed = %+v, want nil", parsed)
	}
	if raw != "I'd rather chat about the weather." {
		t.Errorf("raw = %q, raw text must be preserved for inspection", raw)
	}
}

func TestNewOpenAIEngineMissingPrompt(t *testing.T) {
	client := clients.NewOpenAIClient("test-key", "")
	if _, err := NewOpenAIEngine(client, "gpt-4o-mini", filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing prompt file")
	}
}

// End to end: two records through the real OpenAI engine against a stub
// endpoint produce exactly two matching output entries.
func TestBatchAgainstStubEndpoint(t *testing.T) {
	var requests int
	stub := chatStub(t, `{"sentiment":"neutral","confidence":0.5}`, &requests)
	defer stub.Close()

	client := clients.NewOpenAIClient("test-key", stub.URL+"/v1")
	engine, err := NewOpenAIEngine(client, "gpt-4o-mini", writePrompt(t))
	if err != nil {
		t.Fatal(err)
	}

	cachePath := filepath.Join(t.TempDir(), "e2e_cache.jsonl")
	store, err := cache.Load(cachePath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	records := []models.Record{
		{Index: 0, Comment: "fine I guess"},
		{Index: 1, Comment: "it works"},
	}
	runner := NewRunner(engine, store, 3, 0, 0)
	rows, summary, err := runner.Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if requests != 2 {
		t.Errorf("stub served %d requests, want 2", requests)
	}
	if len(rows) != 2 || summary.Succeeded != 2 {
		t.Fatalf("rows = %d, summary = %+v", len(rows), summary)
	}
	for _, row := range rows {
		if row.RawResponse != `{"sentiment":"neutral","confidence":0.5}` {
			t.Errorf("row %d raw = %q, want stub content", row.Index, row.RawResponse)
		}
		if row.Classification == nil || row.Classification.Sentiment != "neutral" {
			t.Errorf("row %d classification = %+v", row.Index, row.Classification)
		}
	}

	outPath := filepath.Join(t.TempDir(), "results.json")
	if err := WriteResults(outPath, rows); err != nil {
		t.Fatal(err)
	}
	var decoded []models.ResultRow
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 2 {
		t.Errorf("output has %d entries, want 2", len(decoded))
	}
}

func TestVaderEngineClassify(t *testing.T) {
	parsed, raw, err := VaderEngine{}.Classify(context.Background(), "This game is absolutely wonderful, I love it!")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if parsed == nil || parsed.Sentiment != "positive" {
		t.Errorf("parsed = %+v, want positive", parsed)
	}
	if raw == "" {
		t.Error("raw response should hold the classification JSON")
	}
	var roundTrip models.Classification
	if err := json.Unmarshal([]byte(raw), &roundTrip); err != nil {
		t.Errorf("raw response is not valid JSON: %v", err)
	}
}
