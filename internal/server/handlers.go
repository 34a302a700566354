package server

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mindease/ai-service/internal/analyzer"
	"github.com/mindease/ai-service/internal/models"
)

// handleHealth reports liveness plus the identity the original service
// exposed: service name, model identifier, and GPU availability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if !s.healthy.Load() {
		status = "degraded"
	}

	respond(w, http.StatusOK, models.HealthResponse{
		Status:       status,
		Service:      s.cfg.ServiceName,
		Model:        s.cfg.ModelName,
		Timestamp:    time.Now().UTC(),
		GPUAvailable: s.cfg.GPUAvailable,
	})
}

// handleAnalyze is the main endpoint: full sentiment + emotion + risk +
// insight analysis of a single text.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if !decode(w, r, &req) {
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		respondErr(w, http.StatusBadRequest, "no text provided")
		return
	}
	// Length bounds count runes, not bytes, so a two-rune CJK or emoji text
	// is still too short.
	if utf8.RuneCountInString(text) < analyzer.MinTextLength {
		respondErr(w, http.StatusBadRequest, "text too short for analysis")
		return
	}

	respond(w, http.StatusOK, s.analyzer.Analyze(r.Context(), text))
}

// handleSentiment returns the polarity verdict only.
func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if !decode(w, r, &req) {
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		respondErr(w, http.StatusBadRequest, "no text provided")
		return
	}

	respond(w, http.StatusOK, s.analyzer.Sentiment(r.Context(), text))
}

// handleEmotions returns the relabeled emotion list only.
func (s *Server) handleEmotions(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if !decode(w, r, &req) {
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		respondErr(w, http.StatusBadRequest, "no text provided")
		return
	}

	respond(w, http.StatusOK, models.EmotionsResponse{
		Emotions: s.analyzer.Emotions(r.Context(), text),
	})
}

// handleBatchAnalyze analyzes up to analyzer.BatchLimit texts in one call.
// Items failing the length check are skipped; the batch itself never fails.
func (s *Server) handleBatchAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.BatchRequest
	if !decode(w, r, &req) {
		return
	}

	if len(req.Texts) == 0 {
		respondErr(w, http.StatusBadRequest, "invalid input. Expected array of texts")
		return
	}

	respond(w, http.StatusOK, s.analyzer.AnalyzeBatch(r.Context(), req.Texts))
}

// handlePsychologicalAssessment is a documented placeholder for a future
// specialized assessment model.
func (s *Server) handlePsychologicalAssessment(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{
		"message": "Psychological model endpoint - to be implemented",
		"status":  "pending",
		"note":    "Add your custom mental health assessment model here",
	})
}
