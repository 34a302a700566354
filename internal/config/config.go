// Package config reads all environment variables into a typed Config at
// startup. Nothing outside this package calls os.Getenv directly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	BackendHugot  = "hugot"
	BackendVader  = "vader"
	BackendOpenAI = "openai"
)

// Config is the fully-parsed application configuration.
type Config struct {
	Port string // default "8000"
	Env  string // "dev" | "production"

	// ServiceName and ModelName are reported verbatim by GET /health.
	ServiceName string
	ModelName   string

	// SentimentBackend is one of "hugot", "vader", "openai".
	// EmotionBackend is one of "hugot", "openai".
	SentimentBackend string
	EmotionBackend   string

	// ModelDir is where hugot downloads and loads ONNX models.
	ModelDir           string
	SentimentModelName string // hugging face repo for the sentiment model
	EmotionModelName   string // hugging face repo for the emotion model

	OpenAIAPIKey string
	OpenAIModel  string

	// Valkey cache for classifier outputs. Disabled when ValkeyAddr is empty.
	ValkeyAddr     string
	ValkeyPassword string
	ValkeyTLS      bool
	CacheTTL       time.Duration // default 1h

	// RiskConfigPath optionally points at a YAML file overriding the built-in
	// risk keyword lists and emotion label mapping.
	RiskConfigPath string
}

// Load parses the environment. Call config.LoadEnv first so .env files are
// already merged in.
func Load() (*Config, error) {
	c := &Config{
		Port:               getEnv("PORT", "8000"),
		Env:                getEnv("APP_ENV", "dev"),
		ServiceName:        getEnv("SERVICE_NAME", "MindEase AI Service"),
		ModelName:          getEnv("MODEL_NAME", "BERT-based"),
		SentimentBackend:   getEnv("SENTIMENT_BACKEND", BackendVader),
		EmotionBackend:     getEnv("EMOTION_BACKEND", BackendHugot),
		ModelDir:           getEnv("MODEL_DIR", "./models"),
		SentimentModelName: getEnv("SENTIMENT_MODEL", "distilbert-base-uncased-finetuned-sst-2-english"),
		EmotionModelName:   getEnv("EMOTION_MODEL", "j-hartmann/emotion-english-distilroberta-base"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ValkeyAddr:         os.Getenv("VALKEY_INIT_ADDRESS"),
		ValkeyPassword:     os.Getenv("VALKEY_PASSWORD"),
		ValkeyTLS:          getEnvAsBool("VALKEY_TLS", false),
		CacheTTL:           getEnvAsDuration("CACHE_TTL", time.Hour),
		RiskConfigPath:     os.Getenv("RISK_CONFIG_PATH"),
	}

	return c, c.validate()
}

func (c *Config) validate() error {
	switch c.SentimentBackend {
	case BackendHugot, BackendVader, BackendOpenAI:
	default:
		return fmt.Errorf("config: unknown SENTIMENT_BACKEND %q", c.SentimentBackend)
	}

	switch c.EmotionBackend {
	case BackendHugot, BackendOpenAI:
	default:
		return fmt.Errorf("config: unknown EMOTION_BACKEND %q", c.EmotionBackend)
	}

	if (c.SentimentBackend == BackendOpenAI || c.EmotionBackend == BackendOpenAI) && c.OpenAIAPIKey == "" {
		return fmt.Errorf("config: OPENAI_API_KEY is required when an openai backend is selected")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(value) * time.Second
	}
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}
