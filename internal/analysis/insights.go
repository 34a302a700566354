package analysis

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mindease/ai-service/internal/models"
)

const (
	crisisMessage = "Your message suggests significant distress. Please consider " +
		"reaching out to a mental health professional or crisis helpline."
	supportMessage = "It seems you're going through a tough time. Remember, " +
		"it's okay to ask for support."
)

// Insights renders the human-readable insight lines for one analysis. Each
// rule appends independently, in a fixed order: sentiment line, primary
// emotion line, secondary emotion line, then the risk message. Low risk adds
// no message, so the result is empty exactly when sentiment is neutral, no
// emotions were detected, and risk is low.
func Insights(sentiment models.SentimentResult, emotions []models.EmotionScore, risk RiskLevel) []string {
	insights := []string{}

	switch sentiment.Sentiment {
	case "positive":
		insights = append(insights, fmt.Sprintf(
			"Your message reflects a positive outlook (confidence: %.0f%%)",
			sentiment.Confidence*100))
	case "negative":
		insights = append(insights, fmt.Sprintf(
			"Your message shows some challenging emotions (confidence: %.0f%%)",
			sentiment.Confidence*100))
	}

	if len(emotions) > 0 {
		top := emotions[0]
		insights = append(insights, fmt.Sprintf(
			"Primary emotion detected: %s (%.0f%% confidence)",
			titleCase(top.Emotion), top.Confidence*100))

		if len(emotions) > 1 {
			insights = append(insights, fmt.Sprintf(
				"Also sensing: %s", titleCase(emotions[1].Emotion)))
		}
	}

	switch risk {
	case RiskHigh:
		insights = append(insights, crisisMessage)
	case RiskMedium:
		insights = append(insights, supportMessage)
	}

	return insights
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
