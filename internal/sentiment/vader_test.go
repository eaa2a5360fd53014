package sentiment

import "testing"

func TestAnalyzeBuckets(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		want    string
	}{
		{"positive", "This is wonderful, I absolutely love it!", "positive"},
		{"negative", "Horrible experience, a complete waste of money. I hate it.", "negative"},
		{"neutral", "The package arrived on Tuesday.", "neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.comment)
			if got.Sentiment != tt.want {
				t.Errorf("Analyze(%q).Sentiment = %q (confidence %.3f), want %q",
					tt.comment, got.Sentiment, got.Confidence, tt.want)
			}
		})
	}
}

func TestAnalyzeConfidenceSignMatchesLabel(t *testing.T) {
	pos := Analyze("I love this so much, best thing ever!")
	if pos.Confidence < polarityThreshold {
		t.Errorf("positive confidence = %.3f, want >= %.2f", pos.Confidence, polarityThreshold)
	}
	neg := Analyze("I hate this, worst thing ever, truly awful.")
	if neg.Confidence > -polarityThreshold {
		t.Errorf("negative confidence = %.3f, want <= -%.2f", neg.Confidence, polarityThreshold)
	}
}

func TestRemoveLinks(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"check [the docs](https://example.com/docs) first", "check the docs first"},
		{"see https://example.com for more", "see  for more"},
		{"no links here", "no links here"},
	}
	for _, tt := range tests {
		if got := RemoveLinks(tt.in); got != tt.want {
			t.Errorf("RemoveLinks(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
