// Package classifiers wraps the pretrained text-classification backends the
// service delegates to. Every backend is loaded once at startup and is safe
// for concurrent use for the process lifetime; callers treat them as opaque
// functions from text to labeled scores.
package classifiers

import (
	"context"

	"github.com/mindease/ai-service/internal/models"
)

// Sentiment classifies the coarse polarity of a text.
type Sentiment interface {
	ClassifySentiment(ctx context.Context, text string) (models.SentimentResult, error)
}

// Emotion scores a text against the model's emotion vocabulary. Results carry
// the model's own labels; relabeling happens in the analysis package.
type Emotion interface {
	ClassifyEmotions(ctx context.Context, text string) ([]models.LabelScore, error)
}

// NeutralSentiment is the safe default substituted when a sentiment backend
// fails: the request still succeeds with a neutral verdict.
func NeutralSentiment() models.SentimentResult {
	return models.SentimentResult{Sentiment: "neutral", Confidence: 0.5}
}
