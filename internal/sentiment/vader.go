package sentiment

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/sentibatch/internal/models"
)

// compound scores inside (-0.20, 0.20) count as neutral
const polarityThreshold = 0.20

var analyzer = govader.NewSentimentIntensityAnalyzer()

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// RemoveLinks strips markdown links (keeping the link text) and bare URLs,
// which would otherwise skew VADER scoring.
func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(string(output)), " ")

	return RemoveLinks(plainText)
}

// Analyze scores a comment with VADER and buckets the compound polarity into
// positive, neutral or negative. The compound score is carried through as
// the confidence (range -1..1, sign matches the label).
func Analyze(comment string) models.Classification {
	plainText := ConvertMarkdownToText(comment)

	scores := analyzer.PolarityScores(plainText)
	score := scores.Compound

	label := "neutral"
	if score >= polarityThreshold {
		label = "positive"
	} else if score <= -polarityThreshold {
		label = "negative"
	}

	return models.Classification{
		Sentiment:  label,
		Confidence: score,
	}
}
