package analysis

import (
	"sort"
	"strings"

	"github.com/mindease/ai-service/internal/models"
)

// MapEmotions turns raw model output into the application's emotion list:
// labels are remapped through cfg.EmotionLabels, scores are clamped into
// [0,1], the list is sorted by descending confidence (label as a
// deterministic tie-break), and only the top cfg.MaxEmotions survive.
//
// Labels missing from the mapping table pass through lowercased, so a model
// with a wider vocabulary degrades gracefully instead of dropping entries.
func MapEmotions(raw []models.LabelScore, cfg Config) []models.EmotionScore {
	if len(raw) == 0 {
		return nil
	}

	mapped := make([]models.EmotionScore, 0, len(raw))
	for _, ls := range raw {
		original := strings.ToLower(ls.Label)
		emotion, ok := cfg.EmotionLabels[original]
		if !ok {
			emotion = original
		}
		mapped = append(mapped, models.EmotionScore{
			Emotion:       emotion,
			Confidence:    clamp01(ls.Score),
			OriginalLabel: ls.Label,
		})
	}

	sort.SliceStable(mapped, func(a, b int) bool {
		if mapped[a].Confidence != mapped[b].Confidence {
			return mapped[a].Confidence > mapped[b].Confidence
		}
		return mapped[a].Emotion < mapped[b].Emotion
	})

	if len(mapped) > cfg.MaxEmotions {
		mapped = mapped[:cfg.MaxEmotions]
	}
	return mapped
}
