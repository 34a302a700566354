package classifiers

import (
	"context"
	"fmt"
	"math"

	"github.com/jonreiter/govader"

	"github.com/mindease/ai-service/internal/models"
)

// Compound score cutoffs for the positive/negative/neutral split.
const (
	vaderPositiveThreshold = 0.20
	vaderNegativeThreshold = -0.20
)

// VADER is a lexicon-based sentiment backend. It needs no model files or
// network access, which makes it the default: the service starts and answers
// immediately on a fresh machine.
type VADER struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVADER() *VADER {
	return &VADER{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// ClassifySentiment maps the VADER compound score to a polarity label.
// Confidence is |compound| for polar verdicts and its complement for neutral
// ones, so a barely-neutral text reports low certainty either way.
func (v *VADER) ClassifySentiment(_ context.Context, text string) (models.SentimentResult, error) {
	plainText := ConvertMarkdownToText(text)
	if plainText == "" {
		return models.SentimentResult{}, fmt.Errorf("vader: no text left after preprocessing")
	}

	sentiment := v.analyzer.PolarityScores(plainText)
	score := sentiment.Compound

	var label string
	var confidence float64
	switch {
	case score >= vaderPositiveThreshold:
		label = "positive"
		confidence = math.Abs(score)
	case score <= vaderNegativeThreshold:
		label = "negative"
		confidence = math.Abs(score)
	default:
		label = "neutral"
		confidence = 1 - math.Abs(score)
	}

	return models.SentimentResult{
		Sentiment:  label,
		Confidence: confidence,
		RawLabel:   fmt.Sprintf("compound=%.4f", score),
	}, nil
}
