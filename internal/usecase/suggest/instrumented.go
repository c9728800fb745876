package suggest

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/suggestd/internal/domain"
	"github.com/kailas-cloud/suggestd/internal/metrics"
)

// Instrumented wraps a Suggester with metrics and logging.
type Instrumented struct {
	inner  Suggester
	logger *zap.Logger
}

// NewInstrumented wraps inner with prometheus metrics and zap logging.
func NewInstrumented(inner Suggester, logger *zap.Logger) *Instrumented {
	return &Instrumented{inner: inner, logger: logger}
}

// Suggest delegates to the inner suggester and records the outcome.
func (i *Instrumented) Suggest(ctx context.Context, req Request) (Result, error) {
	start := time.Now()

	res, err := i.inner.Suggest(ctx, req)

	duration := time.Since(start)
	status := statusLabel(err)

	metrics.SuggestRequestsTotal.WithLabelValues(req.Index, status).Inc()
	metrics.SuggestRequestDuration.WithLabelValues(req.Index).Observe(duration.Seconds())

	if err != nil {
		log := i.logger.Warn
		if status == "backend_error" {
			log = i.logger.Error
		}
		log("Suggestion request failed",
			zap.String("index", req.Index),
			zap.String("query", req.Query),
			zap.String("expression", res.Query),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return res, err
	}

	metrics.SuggestHits.WithLabelValues(req.Index).Observe(float64(len(res.Hits)))
	if len(res.Hits) == 0 {
		metrics.SuggestEmptyResultsTotal.WithLabelValues(req.Index).Inc()
	}

	i.logger.Debug("Suggestion request completed",
		zap.String("index", req.Index),
		zap.String("expression", res.Query),
		zap.Duration("duration", duration),
		zap.Int("hits", len(res.Hits)),
		zap.Int("total", res.Total),
	)

	return res, nil
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrIndexNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidQuery), errors.Is(err, domain.ErrInvalidConfiguration):
		return "invalid"
	case errors.Is(err, domain.ErrBackend):
		return "backend_error"
	default:
		return "error"
	}
}
