// Package analysis holds the pure scoring core: emotion relabeling, the risk
// heuristic, and insight generation. It has no classifier, transport, or
// storage dependencies and is fully deterministic, so it can be table-tested
// in isolation.
package analysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config externalizes the keyword lists, the emotion label remapping table,
// and the heuristic thresholds. The built-in Default() is used unless a YAML
// override file is configured.
type Config struct {
	// HighRiskPhrases force a high risk level whenever one of them appears
	// anywhere in the text, case-insensitively.
	HighRiskPhrases []string `yaml:"high_risk_phrases"`

	// MediumRiskPhrases escalate a medium assessment to high when the top
	// emotion already signals distress.
	MediumRiskPhrases []string `yaml:"medium_risk_phrases"`

	// EmotionLabels maps model-native labels (lowercased) into the fixed
	// application vocabulary. Unknown labels pass through unchanged.
	EmotionLabels map[string]string `yaml:"emotion_labels"`

	// DistressEmotions are the application-vocabulary emotions that, as the
	// top emotion, indicate elevated risk.
	DistressEmotions []string `yaml:"distress_emotions"`

	// DistressConfidence is the exclusive lower bound on the top emotion's
	// confidence for the distress rule to fire.
	DistressConfidence float64 `yaml:"distress_confidence"`

	// NegativityThreshold is the exclusive upper bound on the negativity
	// score below which risk is raised to medium.
	NegativityThreshold float64 `yaml:"negativity_threshold"`

	// MaxEmotions caps how many emotions are retained downstream.
	MaxEmotions int `yaml:"max_emotions"`
}

// Default returns the built-in configuration mirroring the keyword lists and
// mapping the service shipped with.
func Default() Config {
	return Config{
		HighRiskPhrases: []string{
			"suicide", "kill myself", "end it all", "no point", "give up",
			"hopeless", "worthless", "hate myself", "want to die",
		},
		MediumRiskPhrases: []string{
			"depressed", "anxious", "panic", "overwhelming", "can't cope",
			"breaking down", "falling apart", "spiraling",
		},
		EmotionLabels: map[string]string{
			"joy":      "happy",
			"sadness":  "sad",
			"anger":    "angry",
			"fear":     "anxious",
			"surprise": "surprised",
			"disgust":  "disgusted",
			"neutral":  "neutral",
		},
		DistressEmotions:    []string{"sad", "anxious"},
		DistressConfidence:  0.7,
		NegativityThreshold: 0.3,
		MaxEmotions:         3,
	}
}

// LoadFile reads a YAML override. Fields left empty in the file fall back to
// their defaults, so a file may override just the phrase lists.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("risk config: read %s: %w", path, err)
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return cfg, fmt.Errorf("risk config: parse %s: %w", path, err)
	}

	if len(override.HighRiskPhrases) > 0 {
		cfg.HighRiskPhrases = override.HighRiskPhrases
	}
	if len(override.MediumRiskPhrases) > 0 {
		cfg.MediumRiskPhrases = override.MediumRiskPhrases
	}
	if len(override.EmotionLabels) > 0 {
		cfg.EmotionLabels = override.EmotionLabels
	}
	if len(override.DistressEmotions) > 0 {
		cfg.DistressEmotions = override.DistressEmotions
	}
	if override.DistressConfidence > 0 {
		cfg.DistressConfidence = override.DistressConfidence
	}
	if override.NegativityThreshold > 0 {
		cfg.NegativityThreshold = override.NegativityThreshold
	}
	if override.MaxEmotions > 0 {
		cfg.MaxEmotions = override.MaxEmotions
	}

	return cfg, cfg.Validate()
}

// Validate checks the thresholds and list shapes. Call once at startup.
func (c Config) Validate() error {
	if len(c.HighRiskPhrases) == 0 {
		return fmt.Errorf("risk config: high_risk_phrases must not be empty")
	}
	if c.DistressConfidence < 0 || c.DistressConfidence > 1 {
		return fmt.Errorf("risk config: distress_confidence %v out of range [0,1]", c.DistressConfidence)
	}
	if c.NegativityThreshold < 0 || c.NegativityThreshold > 1 {
		return fmt.Errorf("risk config: negativity_threshold %v out of range [0,1]", c.NegativityThreshold)
	}
	if c.MaxEmotions < 1 {
		return fmt.Errorf("risk config: max_emotions must be >= 1, got %d", c.MaxEmotions)
	}
	return nil
}
