package models

import "time"

// SentimentResult is one classifier verdict on a piece of text. Confidence is
// always in [0,1]. RawLabel carries the label as the underlying model emitted
// it, before mapping into positive/negative/neutral.
type SentimentResult struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	RawLabel   string  `json:"raw_label,omitempty"`
}

// LabelScore is a raw model output: the label exactly as the classifier
// emitted it, plus its score. Relabeling into the application emotion
// vocabulary happens downstream.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// EmotionScore is one entry of an emotion classification, already relabeled
// into the application vocabulary. OriginalLabel is the model's own label.
type EmotionScore struct {
	Emotion       string  `json:"emotion"`
	Confidence    float64 `json:"confidence"`
	OriginalLabel string  `json:"original_label,omitempty"`
}

// AnalysisResponse is the full /analyze payload. It exists only for one
// request/response cycle and is never persisted.
type AnalysisResponse struct {
	Success          bool           `json:"success"`
	Sentiment        string         `json:"sentiment"`
	Confidence       float64        `json:"confidence"`
	DetectedEmotions []string       `json:"detectedEmotions"`
	EmotionScores    []EmotionScore `json:"emotionScores"`
	RiskLevel        string         `json:"riskLevel"`
	Insights         []string       `json:"insights"`
	Timestamp        time.Time      `json:"timestamp"`
}

// BatchItemResult is one row of a /batch-analyze response. Text holds a
// preview truncated to 100 characters.
type BatchItemResult struct {
	Text           string  `json:"text"`
	Sentiment      string  `json:"sentiment"`
	Confidence     float64 `json:"confidence"`
	PrimaryEmotion string  `json:"primaryEmotion"`
	RiskLevel      string  `json:"riskLevel"`
}

type BatchResponse struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Results []BatchItemResult `json:"results"`
}

type HealthResponse struct {
	Status       string    `json:"status"`
	Service      string    `json:"service"`
	Model        string    `json:"model"`
	Timestamp    time.Time `json:"timestamp"`
	GPUAvailable bool      `json:"gpu_available"`
}

type AnalyzeRequest struct {
	Text string `json:"text"`
}

type BatchRequest struct {
	Texts []string `json:"texts"`
}

type EmotionsResponse struct {
	Emotions []EmotionScore `json:"emotions"`
}
