// Package monitoring runs the background classifier health probe feeding the
// /health endpoint.
package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mindease/ai-service/internal/classifiers"
)

const (
	HEALTHCHECK_TIMER = 15
	probeTimeout      = 10 * time.Second
	probeSentence     = "Feeling fine today."
)

// MonitorClassifierHealth periodically classifies a fixed sentence against
// the live sentiment backend and records the outcome in healthy. The flag
// starts true; a failing probe flips it until a later probe succeeds.
func MonitorClassifierHealth(ctx context.Context, probe classifiers.Sentiment, healthy *atomic.Bool) {
	ticker := time.NewTicker(time.Second * HEALTHCHECK_TIMER)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			_, err := probe.ClassifySentiment(probeCtx, probeSentence)
			cancel()

			isHealthy := err == nil
			healthy.Store(isHealthy)
			if !isHealthy {
				slog.Warn("[HealthCheck] Sentiment classifier is unhealthy",
					slog.String("error", err.Error()))
			}
		}
	}
}
