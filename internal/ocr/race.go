package ocr

import (
	"context"
	"strings"
	"time"

	"github.com/rxlens/rxlens/internal/config"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/prometheus"
	"github.com/rxlens/rxlens/pkg/errors"
)

// ---------------------------------------------------------------------------
// Provider race
// ---------------------------------------------------------------------------

// Race runs providers strictly in priority order, one at a time, and keeps
// the best result seen so far. A provider error or empty result is folded
// into the loop and never surfaces on its own; only the case where no
// provider extracts any text is an error.
type Race struct {
	providers []Provider
	earlyExit float64
	tolerance float64
	logger    logging.Logger
	metrics   *prometheus.AppMetrics
}

// NewRace builds a Race over providers in the given priority order. Zero
// thresholds fall back to the configured defaults.
func NewRace(providers []Provider, earlyExit, tolerance float64, log logging.Logger, metrics *prometheus.AppMetrics) *Race {
	if earlyExit <= 0 {
		earlyExit = config.DefaultEarlyExitConfidence
	}
	if tolerance <= 0 {
		tolerance = config.DefaultConfidenceTolerance
	}
	if log == nil {
		log = logging.NewNop()
	}
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	return &Race{
		providers: providers,
		earlyExit: earlyExit,
		tolerance: tolerance,
		logger:    log,
		metrics:   metrics,
	}
}

// ProviderNames lists the configured providers in priority order.
func (r *Race) ProviderNames() []string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

// Run races the providers over one image and returns the winning result.
// When every provider fails or returns empty text, Run returns an
// ErrCodeOCRNoTextExtracted error.
func (r *Race) Run(ctx context.Context, image []byte, mimeType string) (Result, error) {
	var best Result
	haveBest := false

	for _, p := range r.providers {
		if err := ctx.Err(); err != nil {
			return Result{}, errors.Wrap(err, errors.ErrCodeOCRProviderFailed, "ocr race cancelled")
		}

		start := time.Now()
		res, err := p.Recognize(ctx, image, mimeType)
		r.metrics.OCRProviderDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())

		if err != nil {
			r.metrics.OCRAttemptsTotal.WithLabelValues(p.Name(), "error").Inc()
			r.logger.Warn("ocr provider failed",
				logging.String("provider", p.Name()),
				logging.Err(err),
			)
			continue
		}
		if strings.TrimSpace(res.Text) == "" {
			r.metrics.OCRAttemptsTotal.WithLabelValues(p.Name(), "empty").Inc()
			continue
		}
		r.metrics.OCRAttemptsTotal.WithLabelValues(p.Name(), "ok").Inc()
		res.Provider = p.Name()

		if !haveBest || r.better(res, best) {
			best = res
			haveBest = true
		}
		if res.Confidence > r.earlyExit {
			r.metrics.OCRRaceEarlyExits.WithLabelValues(p.Name()).Inc()
			r.logger.Debug("ocr race early exit",
				logging.String("provider", p.Name()),
				logging.Float64("confidence", res.Confidence),
			)
			break
		}
	}

	if !haveBest {
		r.metrics.OCRNoTextFailures.WithLabelValues().Inc()
		return Result{}, errors.New(errors.ErrCodeOCRNoTextExtracted,
			"no text could be extracted from the image, please retry with a clearer photo")
	}

	r.metrics.OCRConfidence.WithLabelValues(best.Provider).Observe(best.Confidence)
	return best, nil
}

// better reports whether candidate should replace the current best. A
// confidence lead of at least half the tolerance wins outright; inside that
// band the longer text wins, on the assumption that a provider reading more
// of the document at comparable confidence captured more of it.
func (r *Race) better(candidate, best Result) bool {
	delta := candidate.Confidence - best.Confidence
	if delta >= r.tolerance/2 {
		return true
	}
	return delta > -r.tolerance/2 && len(candidate.Text) > len(best.Text)
}
