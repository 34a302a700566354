package analysis_test

import (
	"strings"
	"testing"

	"github.com/mindease/ai-service/internal/analysis"
	"github.com/mindease/ai-service/internal/models"
)

func TestInsights_PositiveSentiment(t *testing.T) {
	got := analysis.Insights(
		models.SentimentResult{Sentiment: "positive", Confidence: 0.87},
		nil, analysis.RiskLow)

	if len(got) != 1 {
		t.Fatalf("got %d insights, want 1: %v", len(got), got)
	}
	if !strings.Contains(got[0], "positive outlook") || !strings.Contains(got[0], "87%") {
		t.Errorf("unexpected insight: %q", got[0])
	}
}

func TestInsights_NegativeSentimentWording(t *testing.T) {
	got := analysis.Insights(
		models.SentimentResult{Sentiment: "negative", Confidence: 0.6},
		nil, analysis.RiskLow)

	if len(got) != 1 {
		t.Fatalf("got %d insights, want 1: %v", len(got), got)
	}
	if !strings.Contains(got[0], "challenging emotions") || !strings.Contains(got[0], "60%") {
		t.Errorf("unexpected insight: %q", got[0])
	}
}

func TestInsights_EmotionLines(t *testing.T) {
	got := analysis.Insights(
		models.SentimentResult{Sentiment: "neutral", Confidence: 0.5},
		[]models.EmotionScore{
			{Emotion: "sad", Confidence: 0.92},
			{Emotion: "anxious", Confidence: 0.4},
		},
		analysis.RiskLow)

	if len(got) != 2 {
		t.Fatalf("got %d insights, want 2: %v", len(got), got)
	}
	if !strings.Contains(got[0], "Primary emotion detected: Sad") || !strings.Contains(got[0], "92%") {
		t.Errorf("unexpected primary emotion line: %q", got[0])
	}
	if got[1] != "Also sensing: Anxious" {
		t.Errorf("unexpected secondary emotion line: %q", got[1])
	}
}

func TestInsights_RiskMessagesAndOrder(t *testing.T) {
	sentiment := models.SentimentResult{Sentiment: "negative", Confidence: 0.8}
	ems := []models.EmotionScore{{Emotion: "sad", Confidence: 0.9}}

	high := analysis.Insights(sentiment, ems, analysis.RiskHigh)
	if len(high) != 3 {
		t.Fatalf("high risk: got %d insights, want 3: %v", len(high), high)
	}
	if !strings.Contains(high[0], "challenging emotions") {
		t.Errorf("sentiment line not first: %q", high[0])
	}
	if !strings.Contains(high[1], "Primary emotion") {
		t.Errorf("emotion line not second: %q", high[1])
	}
	if !strings.Contains(high[2], "crisis helpline") {
		t.Errorf("crisis message not last: %q", high[2])
	}

	medium := analysis.Insights(sentiment, ems, analysis.RiskMedium)
	last := medium[len(medium)-1]
	if !strings.Contains(last, "okay to ask for support") {
		t.Errorf("supportive message not last: %q", last)
	}

	low := analysis.Insights(sentiment, ems, analysis.RiskLow)
	for _, line := range low {
		if strings.Contains(line, "crisis") || strings.Contains(line, "support") {
			t.Errorf("low risk must not include a risk message: %q", line)
		}
	}
}

func TestInsights_EmptyOnlyWhenAllQuiet(t *testing.T) {
	got := analysis.Insights(
		models.SentimentResult{Sentiment: "neutral", Confidence: 0.5},
		nil, analysis.RiskLow)

	if len(got) != 0 {
		t.Errorf("expected no insights, got %v", got)
	}
}
