package analysis

import (
	"strings"

	"github.com/mindease/ai-service/internal/models"
)

// RiskLevel is the coarse severity bucket used to gate supportive messaging.
// It is derived per request and never persisted.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Negativity derives the scalar heuristic input from a sentiment result:
// a negative verdict contributes its confidence directly, a positive verdict
// contributes the complement, and neutral sits at 0.5. This is the single
// formula used by every endpoint.
func Negativity(sentiment string, confidence float64) float64 {
	switch sentiment {
	case "negative":
		return clamp01(confidence)
	case "positive":
		return clamp01(1 - confidence)
	default:
		return 0.5
	}
}

// Assess combines raw text, the relabeled emotion list, and the negativity
// score into a risk level. Rules are ordered and the first match wins:
//
//  1. any high-risk phrase in the text        -> high
//  2. top emotion is a distress emotion with
//     confidence above the distress bound:
//     a medium-risk phrase is also present    -> high
//     otherwise                               -> medium
//  3. negativity below the threshold          -> medium
//  4. otherwise                               -> low
//
// A nil or empty emotion list simply skips rule 2. The function is pure and
// deterministic.
func Assess(text string, emotions []models.EmotionScore, negativity float64, cfg Config) RiskLevel {
	lower := strings.ToLower(text)

	if containsAny(lower, cfg.HighRiskPhrases) {
		return RiskHigh
	}

	if len(emotions) > 0 {
		top := emotions[0]
		if isDistressEmotion(top.Emotion, cfg) && top.Confidence > cfg.DistressConfidence {
			if containsAny(lower, cfg.MediumRiskPhrases) {
				return RiskHigh
			}
			return RiskMedium
		}
	}

	if negativity < cfg.NegativityThreshold {
		return RiskMedium
	}

	return RiskLow
}

func containsAny(lower string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

func isDistressEmotion(emotion string, cfg Config) bool {
	for _, e := range cfg.DistressEmotions {
		if emotion == e {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
