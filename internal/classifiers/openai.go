package classifiers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mindease/ai-service/internal/models"
)

const (
	openAIRequestTimeout = 60 * time.Second
	openAIRetryAttempts  = 3
)

const sentimentPrompt = `You are a sentiment classifier. Respond with a JSON object:
{"sentiment": "positive"|"negative"|"neutral", "confidence": <number between 0 and 1>}
Classify the sentiment of the user's message.`

const emotionPrompt = `You are an emotion classifier. Respond with a JSON object:
{"emotions": [{"label": "joy"|"sadness"|"anger"|"fear"|"surprise"|"disgust"|"neutral", "score": <number between 0 and 1>}, ...]}
Score every listed emotion for the user's message.`

// OpenAI is a remote LLM-backed classifier. It produces the same result
// shapes as the local backends, so it can stand in for either model when no
// ONNX runtime is available.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	config.HTTPClient = &http.Client{
		Timeout: openAIRequestTimeout,
	}

	slog.Info("[OpenAIClassifier] OpenAI client initialized with custom HTTP timeout",
		slog.Duration("timeout", openAIRequestTimeout),
		slog.String("model", model))

	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (o *OpenAI) ClassifySentiment(ctx context.Context, text string) (models.SentimentResult, error) {
	content, err := o.complete(ctx, sentimentPrompt, text)
	if err != nil {
		return models.SentimentResult{}, err
	}

	var result models.SentimentResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return models.SentimentResult{}, fmt.Errorf("openai: unmarshal sentiment response: %w", err)
	}

	switch result.Sentiment {
	case "positive", "negative", "neutral":
	default:
		return models.SentimentResult{}, fmt.Errorf("openai: unexpected sentiment label %q", result.Sentiment)
	}
	result.RawLabel = result.Sentiment

	return result, nil
}

func (o *OpenAI) ClassifyEmotions(ctx context.Context, text string) ([]models.LabelScore, error) {
	content, err := o.complete(ctx, emotionPrompt, text)
	if err != nil {
		return nil, err
	}

	var result struct {
		Emotions []models.LabelScore `json:"emotions"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("openai: unmarshal emotion response: %w", err)
	}

	return result.Emotions, nil
}

func (o *OpenAI) complete(ctx context.Context, system, text string) (string, error) {
	var resp openai.ChatCompletionResponse
	var completionErr error

	for i := 0; i < openAIRetryAttempts; i++ {
		start := time.Now()
		resp, completionErr = o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: o.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: ConvertMarkdownToText(text)},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
		if completionErr == nil {
			break
		}
		slog.Warn("[OpenAIClassifier] Failed to get a response from OpenAI, retrying...",
			slog.String("error", completionErr.Error()),
			slog.Int("attempt", i+1),
			slog.Duration("elapsed", time.Since(start)))
	}
	if completionErr != nil {
		return "", fmt.Errorf("openai: completion failed after %d attempts: %w",
			openAIRetryAttempts, completionErr)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
