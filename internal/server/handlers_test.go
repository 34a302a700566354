package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindease/ai-service/internal/analysis"
	"github.com/mindease/ai-service/internal/analyzer"
	"github.com/mindease/ai-service/internal/models"
	"github.com/mindease/ai-service/internal/server"
)

// ─── STUBS ────────────────────────────────────────────────────────────────────

type stubSentiment struct {
	result models.SentimentResult
}

func (s *stubSentiment) ClassifySentiment(context.Context, string) (models.SentimentResult, error) {
	return s.result, nil
}

type stubEmotion struct {
	result []models.LabelScore
}

func (s *stubEmotion) ClassifyEmotions(context.Context, string) ([]models.LabelScore, error) {
	return s.result, nil
}

type testServer struct {
	handler http.Handler
	healthy *atomic.Bool
}

func newTestServer(sentiment models.SentimentResult, emotions []models.LabelScore) *testServer {
	a := analyzer.New(
		&stubSentiment{result: sentiment},
		&stubEmotion{result: emotions},
		"stub", "stub", analysis.Default(), nil)

	healthy := &atomic.Bool{}
	healthy.Store(true)

	handler := server.NewServer(a, healthy, server.Config{
		ServiceName:  "MindEase AI Service",
		ModelName:    "BERT-based",
		GPUAvailable: false,
		Env:          "test",
	}, slog.Default())

	return &testServer{handler: handler, healthy: healthy}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func neutralStub() models.SentimentResult {
	return models.SentimentResult{Sentiment: "neutral", Confidence: 0.5}
}

// ─── /health ──────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	ts := newTestServer(neutralStub(), nil)

	rec := ts.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[models.HealthResponse](t, rec)
	assert.Equal(t, "healthy", got.Status)
	assert.Equal(t, "MindEase AI Service", got.Service)
	assert.Equal(t, "BERT-based", got.Model)
	assert.False(t, got.GPUAvailable)
	assert.False(t, got.Timestamp.IsZero())
}

func TestHealth_Degraded(t *testing.T) {
	ts := newTestServer(neutralStub(), nil)
	ts.healthy.Store(false)

	rec := ts.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[models.HealthResponse](t, rec)
	assert.Equal(t, "degraded", got.Status)
}

// ─── /analyze ─────────────────────────────────────────────────────────────────

func TestAnalyze(t *testing.T) {
	ts := newTestServer(
		models.SentimentResult{Sentiment: "positive", Confidence: 0.9},
		[]models.LabelScore{{Label: "joy", Score: 0.8}})

	rec := ts.do(t, http.MethodPost, "/analyze", models.AnalyzeRequest{Text: "What a lovely morning"})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[models.AnalysisResponse](t, rec)
	assert.True(t, got.Success)
	assert.Equal(t, "positive", got.Sentiment)
	assert.Equal(t, "low", got.RiskLevel)
	assert.Equal(t, []string{"happy"}, got.DetectedEmotions)
	assert.NotEmpty(t, got.Insights)
}

func TestAnalyze_HighRiskText(t *testing.T) {
	ts := newTestServer(
		models.SentimentResult{Sentiment: "positive", Confidence: 0.99},
		[]models.LabelScore{{Label: "joy", Score: 0.99}})

	rec := ts.do(t, http.MethodPost, "/analyze", models.AnalyzeRequest{Text: "I want to kill myself"})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[models.AnalysisResponse](t, rec)
	assert.Equal(t, "high", got.RiskLevel)
	assert.Contains(t, got.Insights[len(got.Insights)-1], "crisis helpline")
}

func TestAnalyze_Validation(t *testing.T) {
	ts := newTestServer(neutralStub(), nil)

	tests := []struct {
		name    string
		body    any
		wantErr string
	}{
		{"missing text field", map[string]string{}, "no text provided"},
		{"empty text", models.AnalyzeRequest{Text: "   "}, "no text provided"},
		{"too short", models.AnalyzeRequest{Text: "hi"}, "text too short"},
		{"too short multibyte", models.AnalyzeRequest{Text: "日本"}, "text too short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/analyze", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			got := decodeBody[map[string]string](t, rec)
			assert.Contains(t, got["error"], tt.wantErr)
		})
	}
}

func TestAnalyze_MalformedBody(t *testing.T) {
	ts := newTestServer(neutralStub(), nil)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeBody[map[string]string](t, rec)
	assert.NotEmpty(t, got["error"])
}

// ─── /sentiment and /emotions ─────────────────────────────────────────────────

func TestSentiment(t *testing.T) {
	ts := newTestServer(models.SentimentResult{Sentiment: "negative", Confidence: 0.7}, nil)

	rec := ts.do(t, http.MethodPost, "/sentiment", models.AnalyzeRequest{Text: "not great"})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[models.SentimentResult](t, rec)
	assert.Equal(t, "negative", got.Sentiment)
	assert.Equal(t, 0.7, got.Confidence)
}

func TestSentiment_EmptyText(t *testing.T) {
	ts := newTestServer(neutralStub(), nil)

	rec := ts.do(t, http.MethodPost, "/sentiment", models.AnalyzeRequest{Text: ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmotions(t *testing.T) {
	ts := newTestServer(neutralStub(), []models.LabelScore{
		{Label: "sadness", Score: 0.6},
		{Label: "fear", Score: 0.3},
	})

	rec := ts.do(t, http.MethodPost, "/emotions", models.AnalyzeRequest{Text: "long day at work"})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[models.EmotionsResponse](t, rec)
	require.Len(t, got.Emotions, 2)
	assert.Equal(t, "sad", got.Emotions[0].Emotion)
	assert.Equal(t, "anxious", got.Emotions[1].Emotion)
}

func TestEmotions_EmptyText(t *testing.T) {
	ts := newTestServer(neutralStub(), nil)

	rec := ts.do(t, http.MethodPost, "/emotions", models.AnalyzeRequest{Text: "  "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─── /batch-analyze ───────────────────────────────────────────────────────────

func TestBatchAnalyze_CapsAtFifty(t *testing.T) {
	ts := newTestServer(neutralStub(), nil)

	texts := make([]string, 51)
	for i := range texts {
		texts[i] = "a perfectly ordinary sentence"
	}

	rec := ts.do(t, http.MethodPost, "/batch-analyze", models.BatchRequest{Texts: texts})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[models.BatchResponse](t, rec)
	assert.True(t, got.Success)
	assert.Equal(t, 50, got.Count)
	assert.Len(t, got.Results, 50)
}

func TestBatchAnalyze_SkipsShortTexts(t *testing.T) {
	ts := newTestServer(neutralStub(), nil)

	rec := ts.do(t, http.MethodPost, "/batch-analyze",
		models.BatchRequest{Texts: []string{"hi", "日本", "a perfectly ordinary sentence"}})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[models.BatchResponse](t, rec)
	assert.Equal(t, 1, got.Count)
}

func TestBatchAnalyze_EmptyInput(t *testing.T) {
	ts := newTestServer(neutralStub(), nil)

	rec := ts.do(t, http.MethodPost, "/batch-analyze", models.BatchRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	got := decodeBody[map[string]string](t, rec)
	assert.Contains(t, got["error"], "Expected array of texts")
}

// ─── misc routes ──────────────────────────────────────────────────────────────

func TestPsychologicalAssessment_Placeholder(t *testing.T) {
	ts := newTestServer(neutralStub(), nil)

	rec := ts.do(t, http.MethodPost, "/psychological-assessment", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "pending", got["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(neutralStub(), nil)

	rec := ts.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMetrics_RequestCounterUsesRoutePattern(t *testing.T) {
	ts := newTestServer(neutralStub(), nil)

	rec := ts.do(t, http.MethodPost, "/analyze", models.AnalyzeRequest{Text: "a perfectly ordinary sentence"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/some-unknown-path-9d1f", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `route="/analyze"`)
	assert.Contains(t, body, `route="unmatched"`)
	// Raw 404 paths must never become label values.
	assert.NotContains(t, body, "some-unknown-path-9d1f")
}
