package prometheus

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "rxlens"}, logging.NewNop())
	require.NoError(t, err)
	return c
}

func TestNewMetricsCollectorRequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, logging.NewNop())
	require.Error(t, err)
}

func TestCounterRoundTrip(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("ocr_attempts_total", "OCR attempts", "provider", "status")
	vec.WithLabelValues("tesseract", "success").Inc()
	vec.WithLabelValues("tesseract", "success").Add(2)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "rxlens_ocr_attempts_total")
	assert.Contains(t, body, `provider="tesseract"`)
	assert.True(t, strings.Contains(body, "3"))
}

func TestDuplicateRegistrationReturnsExisting(t *testing.T) {
	c := newTestCollector(t)
	first := c.RegisterCounter("cache_hits_total", "hits", "cache")
	second := c.RegisterCounter("cache_hits_total", "hits", "cache")

	first.WithLabelValues("analysis").Inc()
	second.WithLabelValues("analysis").Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	// Both increments land on the same underlying vector.
	assert.Contains(t, rec.Body.String(), "2")
}

func TestHistogramObserve(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterHistogram("ocr_provider_duration_seconds", "duration", DefaultOCRDurationBuckets, "provider")
	vec.WithLabelValues("remote").Observe(1.5)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "rxlens_ocr_provider_duration_seconds")
}

func TestGaugeSet(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterGauge("health_check_status", "health", "component")
	vec.WithLabelValues("redis").Set(1)
	vec.WithLabelValues("postgres").Set(0)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `component="redis"`)
}

func TestNewAppMetricsRegistersEverything(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)
	require.NotNil(t, m)

	m.OCRAttemptsTotal.WithLabelValues("tesseract", "success").Inc()
	m.CacheMissesTotal.WithLabelValues("analysis").Inc()
	m.ErrorsTotal.WithLabelValues("OCR_001").Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, "rxlens_ocr_attempts_total")
	assert.Contains(t, body, "rxlens_cache_misses_total")
	assert.Contains(t, body, "rxlens_errors_total")
}

func TestNopAppMetricsIsSafe(t *testing.T) {
	m := NewNopAppMetrics()
	assert.NotPanics(t, func() {
		m.HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200").Inc()
		m.OCRConfidence.WithLabelValues("tesseract").Observe(91)
		m.HealthCheckStatus.WithLabelValues("kafka").Set(1)
		NewTimer(m.DBQueryDuration.WithLabelValues("insert_analysis")).ObserveDuration()
	})
}
