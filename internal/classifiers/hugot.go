package classifiers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/mindease/ai-service/internal/models"
)

// Hugot runs the pretrained sentiment and emotion models locally through
// ONNX Runtime. Models are downloaded into modelDir on first start; the
// session and pipelines are created once and shared for the process lifetime.
type Hugot struct {
	session   *hugot.Session
	sentiment *pipelines.TextClassificationPipeline
	emotion   *pipelines.TextClassificationPipeline
}

// NewHugot downloads (if necessary) and loads both models. Either model name
// may be empty, in which case that pipeline is not created and the
// corresponding Classify call returns an error; main only wires the pipelines
// the configured backends actually need.
func NewHugot(modelDir, sentimentModel, emotionModel string) (*Hugot, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("hugot: create model dir: %w", err)
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("hugot: init session: %w", err)
	}

	h := &Hugot{session: session}

	if sentimentModel != "" {
		h.sentiment, err = newClassificationPipeline(session, modelDir, sentimentModel, "sentimentPipeline")
		if err != nil {
			session.Destroy()
			return nil, err
		}
	}

	if emotionModel != "" {
		h.emotion, err = newClassificationPipeline(session, modelDir, emotionModel, "emotionPipeline")
		if err != nil {
			session.Destroy()
			return nil, err
		}
	}

	return h, nil
}

func newClassificationPipeline(session *hugot.Session, modelDir, modelName, pipelineName string) (*pipelines.TextClassificationPipeline, error) {
	modelPath, err := ensureModel(modelDir, modelName)
	if err != nil {
		return nil, err
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      pipelineName,
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		return nil, fmt.Errorf("hugot: init pipeline %s: %w", pipelineName, err)
	}

	slog.Info("[HugotClassifier] Pipeline ready",
		slog.String("pipeline", pipelineName),
		slog.String("model", modelName))

	return pipeline, nil
}

// ensureModel returns the local path of a model, downloading it when absent.
func ensureModel(modelDir, modelName string) (string, error) {
	localPath := filepath.Join(modelDir, strings.ReplaceAll(modelName, "/", "_"))

	if _, err := os.Stat(localPath); err == nil {
		slog.Info("[HugotClassifier] Using existing model", slog.String("path", localPath))
		return localPath, nil
	}

	slog.Info("[HugotClassifier] Model not found, downloading...",
		slog.String("model", modelName))
	start := time.Now()

	modelPath, err := hugot.DownloadModel(modelName, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("hugot: download %s: %w", modelName, err)
	}

	slog.Info("[HugotClassifier] Model downloaded successfully",
		slog.String("path", modelPath),
		slog.Duration("elapsed", time.Since(start)))

	return modelPath, nil
}

func (h *Hugot) ClassifySentiment(_ context.Context, text string) (models.SentimentResult, error) {
	if h.sentiment == nil {
		return models.SentimentResult{}, fmt.Errorf("hugot: sentiment pipeline not loaded")
	}

	scores, err := runClassification(h.sentiment, text)
	if err != nil {
		return models.SentimentResult{}, err
	}
	if len(scores) == 0 {
		return models.SentimentResult{}, fmt.Errorf("hugot: sentiment pipeline returned no scores")
	}

	top := scores[0]
	for _, s := range scores[1:] {
		if s.Score > top.Score {
			top = s
		}
	}

	label := strings.ToLower(top.Label)
	sentiment := "neutral"
	if label == "positive" || label == "negative" {
		sentiment = label
	}

	return models.SentimentResult{
		Sentiment:  sentiment,
		Confidence: top.Score,
		RawLabel:   label,
	}, nil
}

func (h *Hugot) ClassifyEmotions(_ context.Context, text string) ([]models.LabelScore, error) {
	if h.emotion == nil {
		return nil, fmt.Errorf("hugot: emotion pipeline not loaded")
	}
	return runClassification(h.emotion, text)
}

func runClassification(pipeline *pipelines.TextClassificationPipeline, text string) ([]models.LabelScore, error) {
	plainText := ConvertMarkdownToText(text)

	output, err := pipeline.RunPipeline([]string{plainText})
	if err != nil {
		return nil, fmt.Errorf("hugot: run pipeline: %w", err)
	}

	var scores []models.LabelScore
	for _, raw := range output.GetOutput() {
		classified, ok := raw.([]pipelines.ClassificationOutput)
		if !ok {
			slog.Warn("[HugotClassifier] Unexpected output format from Hugot")
			continue
		}
		for _, c := range classified {
			scores = append(scores, models.LabelScore{
				Label: c.Label,
				Score: float64(c.Score),
			})
		}
	}

	return scores, nil
}

// GPUAvailable reports whether inference runs on a GPU. The CPU build of ONNX
// Runtime is used here, so this is always false; /health surfaces it.
func (h *Hugot) GPUAvailable() bool { return false }

// Close destroys the shared ORT session. Call once at shutdown.
func (h *Hugot) Close() {
	if h.session != nil {
		h.session.Destroy()
	}
}
