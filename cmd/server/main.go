package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/mindease/ai-service/config"
	"github.com/mindease/ai-service/internal/analysis"
	"github.com/mindease/ai-service/internal/analyzer"
	"github.com/mindease/ai-service/internal/cache"
	"github.com/mindease/ai-service/internal/classifiers"
	appconfig "github.com/mindease/ai-service/internal/config"
	"github.com/mindease/ai-service/internal/logging"
	"github.com/mindease/ai-service/internal/monitoring"
	"github.com/mindease/ai-service/internal/server"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger(env)

	if err := run(); err != nil {
		slog.Error("[Main] Fatal", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := appconfig.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	slog.Info("[Main] Config loaded",
		slog.String("env", cfg.Env),
		slog.String("port", cfg.Port),
		slog.String("sentiment_backend", cfg.SentimentBackend),
		slog.String("emotion_backend", cfg.EmotionBackend))

	riskCfg := analysis.Default()
	if cfg.RiskConfigPath != "" {
		riskCfg, err = analysis.LoadFile(cfg.RiskConfigPath)
		if err != nil {
			return fmt.Errorf("risk config: %w", err)
		}
		slog.Info("[Main] Risk config overridden",
			slog.String("path", cfg.RiskConfigPath))
	}

	sentiment, emotion, hugotBackend, err := buildClassifiers(cfg)
	if err != nil {
		return fmt.Errorf("classifiers: %w", err)
	}
	if hugotBackend != nil {
		defer hugotBackend.Close()
	}

	var classifierCache *cache.Cache
	if cfg.ValkeyAddr != "" {
		classifierCache, err = cache.New(cache.Options{
			Addr:     cfg.ValkeyAddr,
			Password: cfg.ValkeyPassword,
			UseTLS:   cfg.ValkeyTLS,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			// The cache is an optimization; start without it.
			slog.Warn("[Main] Cache unavailable, continuing without it",
				slog.String("error", err.Error()))
			classifierCache = nil
		}
	}
	defer classifierCache.Close()

	a := analyzer.New(sentiment, emotion,
		cfg.SentimentBackend, cfg.EmotionBackend, riskCfg, classifierCache)

	var healthy atomic.Bool
	healthy.Store(true)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go monitoring.MonitorClassifierHealth(ctx, sentiment, &healthy)

	handler := server.NewServer(a, &healthy, server.Config{
		ServiceName:  cfg.ServiceName,
		ModelName:    cfg.ModelName,
		GPUAvailable: hugotBackend != nil && hugotBackend.GPUAvailable(),
		Env:          cfg.Env,
	}, slog.Default())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("[Main] Server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("[Main] Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("[Main] Shutdown complete")
	return nil
}

// buildClassifiers wires the configured backends. A single hugot session is
// shared when both backends are local, and no session is created at all when
// neither needs one.
func buildClassifiers(cfg *appconfig.Config) (classifiers.Sentiment, classifiers.Emotion, *classifiers.Hugot, error) {
	sentimentModel := ""
	if cfg.SentimentBackend == appconfig.BackendHugot {
		sentimentModel = cfg.SentimentModelName
	}
	emotionModel := ""
	if cfg.EmotionBackend == appconfig.BackendHugot {
		emotionModel = cfg.EmotionModelName
	}

	var hugotBackend *classifiers.Hugot
	if sentimentModel != "" || emotionModel != "" {
		var err error
		hugotBackend, err = classifiers.NewHugot(cfg.ModelDir, sentimentModel, emotionModel)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	var openaiBackend *classifiers.OpenAI
	if cfg.SentimentBackend == appconfig.BackendOpenAI || cfg.EmotionBackend == appconfig.BackendOpenAI {
		openaiBackend = classifiers.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}

	var sentiment classifiers.Sentiment
	switch cfg.SentimentBackend {
	case appconfig.BackendHugot:
		sentiment = hugotBackend
	case appconfig.BackendOpenAI:
		sentiment = openaiBackend
	default:
		sentiment = classifiers.NewVADER()
	}

	var emotion classifiers.Emotion
	switch cfg.EmotionBackend {
	case appconfig.BackendOpenAI:
		emotion = openaiBackend
	default:
		emotion = hugotBackend
	}

	return sentiment, emotion, hugotBackend, nil
}
