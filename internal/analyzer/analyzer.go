// Package analyzer orchestrates the classifiers and the pure analysis core
// into complete, per-request analyses. It owns the failure policy: a broken
// classifier is downgraded to a neutral default so the request still
// succeeds, and nothing here retries.
package analyzer

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mindease/ai-service/internal/analysis"
	"github.com/mindease/ai-service/internal/cache"
	"github.com/mindease/ai-service/internal/classifiers"
	"github.com/mindease/ai-service/internal/metrics"
	"github.com/mindease/ai-service/internal/models"
)

const (
	// MinTextLength is the inclusive lower bound on trimmed input; shorter
	// texts are rejected (or skipped, in batches).
	MinTextLength = 3

	// MaxTextLength is the truncation bound applied before any classifier
	// sees the text.
	MaxTextLength = 1000

	// BatchLimit caps how many texts one batch request will consider.
	BatchLimit = 50

	batchPreviewLength = 100
)

// Analyzer holds the injected classifier backends plus the analysis config.
// It is safe for concurrent use: the backends are read-only after startup and
// the core functions are pure.
type Analyzer struct {
	sentiment classifiers.Sentiment
	emotion   classifiers.Emotion

	// Backend names participate in cache keys so a backend switch never
	// serves results computed by a different model.
	sentimentBackend string
	emotionBackend   string

	cfg   analysis.Config
	cache *cache.Cache
}

func New(
	sentiment classifiers.Sentiment,
	emotion classifiers.Emotion,
	sentimentBackend, emotionBackend string,
	cfg analysis.Config,
	c *cache.Cache,
) *Analyzer {
	return &Analyzer{
		sentiment:        sentiment,
		emotion:          emotion,
		sentimentBackend: sentimentBackend,
		emotionBackend:   emotionBackend,
		cfg:              cfg,
		cache:            c,
	}
}

// Truncate bounds text at MaxTextLength runes.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) > MaxTextLength {
		return string(runes[:MaxTextLength])
	}
	return text
}

// Analyze runs the full pipeline for one text: sentiment, emotions, risk,
// insights. The input is truncated first; validation of minimum length is the
// caller's job.
func (a *Analyzer) Analyze(ctx context.Context, text string) models.AnalysisResponse {
	start := time.Now()
	text = Truncate(text)

	sentiment := a.classifySentiment(ctx, text)
	emotions := a.classifyEmotions(ctx, text)

	negativity := analysis.Negativity(sentiment.Sentiment, sentiment.Confidence)
	risk := analysis.Assess(text, emotions, negativity, a.cfg)
	insights := analysis.Insights(sentiment, emotions, risk)

	detected := make([]string, 0, len(emotions))
	for _, e := range emotions {
		detected = append(detected, e.Emotion)
	}

	metrics.RecordAnalysis(time.Since(start), string(risk))
	slog.Info("[Analyzer] Analysis complete",
		slog.String("sentiment", sentiment.Sentiment),
		slog.String("risk_level", string(risk)),
		slog.Duration("elapsed", time.Since(start)))

	return models.AnalysisResponse{
		Success:          true,
		Sentiment:        sentiment.Sentiment,
		Confidence:       sentiment.Confidence,
		DetectedEmotions: detected,
		EmotionScores:    emotions,
		RiskLevel:        string(risk),
		Insights:         insights,
		Timestamp:        time.Now().UTC(),
	}
}

// Sentiment classifies polarity only, with the same truncation and failure
// substitution as Analyze.
func (a *Analyzer) Sentiment(ctx context.Context, text string) models.SentimentResult {
	return a.classifySentiment(ctx, Truncate(text))
}

// Emotions classifies emotions only. A backend failure yields an empty list,
// not an error.
func (a *Analyzer) Emotions(ctx context.Context, text string) []models.EmotionScore {
	return a.classifyEmotions(ctx, Truncate(text))
}

// AnalyzeBatch analyzes up to BatchLimit texts. Items failing the minimum
// length check are skipped rather than failing the batch, so the response
// count may be smaller than the input.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, texts []string) models.BatchResponse {
	if len(texts) > BatchLimit {
		texts = texts[:BatchLimit]
	}

	results := make([]models.BatchItemResult, 0, len(texts))
	for _, text := range texts {
		if utf8.RuneCountInString(strings.TrimSpace(text)) < MinTextLength {
			continue
		}

		full := a.Analyze(ctx, text)

		primaryEmotion := "neutral"
		if len(full.EmotionScores) > 0 {
			primaryEmotion = full.EmotionScores[0].Emotion
		}

		results = append(results, models.BatchItemResult{
			Text:           preview(text),
			Sentiment:      full.Sentiment,
			Confidence:     full.Confidence,
			PrimaryEmotion: primaryEmotion,
			RiskLevel:      full.RiskLevel,
		})
	}

	return models.BatchResponse{
		Success: true,
		Count:   len(results),
		Results: results,
	}
}

// preview bounds the text echoed back in batch results.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) > batchPreviewLength {
		return string(runes[:batchPreviewLength]) + "..."
	}
	return text
}

func (a *Analyzer) classifySentiment(ctx context.Context, text string) models.SentimentResult {
	key := cache.Key(a.sentimentBackend, text)

	var cached models.SentimentResult
	if a.cache.Get(ctx, key, &cached) {
		return cached
	}

	result, err := a.sentiment.ClassifySentiment(ctx, text)
	if err != nil {
		slog.Error("[Analyzer] Sentiment analysis error",
			slog.String("backend", a.sentimentBackend),
			slog.String("error", err.Error()))
		metrics.RecordClassifierFailure("sentiment")
		return classifiers.NeutralSentiment()
	}

	a.cache.Set(ctx, key, result)
	return result
}

func (a *Analyzer) classifyEmotions(ctx context.Context, text string) []models.EmotionScore {
	key := cache.Key(a.emotionBackend, text)

	var cached []models.LabelScore
	if !a.cache.Get(ctx, key, &cached) {
		var err error
		cached, err = a.emotion.ClassifyEmotions(ctx, text)
		if err != nil {
			slog.Error("[Analyzer] Emotion detection error",
				slog.String("backend", a.emotionBackend),
				slog.String("error", err.Error()))
			metrics.RecordClassifierFailure("emotion")
			return []models.EmotionScore{}
		}
		a.cache.Set(ctx, key, cached)
	}

	mapped := analysis.MapEmotions(cached, a.cfg)
	if mapped == nil {
		return []models.EmotionScore{}
	}
	return mapped
}
