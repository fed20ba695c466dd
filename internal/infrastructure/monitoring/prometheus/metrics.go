package prometheus

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP Layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPRequestSize     HistogramVec
	HTTPActiveRequests  GaugeVec

	// OCR Layer
	OCRAttemptsTotal    CounterVec
	OCRProviderDuration HistogramVec
	OCRConfidence       HistogramVec
	OCRRaceEarlyExits   CounterVec
	OCRNoTextFailures   CounterVec

	// Extraction Layer
	ExtractionDuration       HistogramVec
	ExtractionEntitiesTotal  CounterVec
	ExtractionFallbacksTotal CounterVec

	// Drug Validation Layer
	DrugValidationsTotal CounterVec
	FDALookupsTotal      CounterVec
	FDALookupDuration    HistogramVec

	// Infrastructure Layer
	CacheHitsTotal       CounterVec
	CacheMissesTotal     CounterVec
	DBQueryDuration      HistogramVec
	StorageOpsTotal      CounterVec
	EventsPublishedTotal CounterVec

	// System Health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default Buckets
var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultOCRDurationBuckets  = []float64{.1, .25, .5, 1, 2, 5, 10, 20, 45, 90}
	DefaultConfidenceBuckets   = []float64{10, 20, 30, 40, 50, 60, 70, 80, 85, 90, 95, 100}
	DefaultSizeBuckets         = []float64{1000, 10000, 100000, 1000000, 5000000, 10000000}
	DefaultDBDurationBuckets   = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers all metrics and returns the AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPRequestSize = collector.RegisterHistogram("http_request_size_bytes", "HTTP request size", DefaultSizeBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// OCR
	m.OCRAttemptsTotal = collector.RegisterCounter("ocr_attempts_total", "OCR provider attempts", "provider", "status")
	m.OCRProviderDuration = collector.RegisterHistogram("ocr_provider_duration_seconds", "Per-provider OCR duration", DefaultOCRDurationBuckets, "provider")
	m.OCRConfidence = collector.RegisterHistogram("ocr_confidence", "Confidence of the winning OCR result", DefaultConfidenceBuckets, "provider")
	m.OCRRaceEarlyExits = collector.RegisterCounter("ocr_race_early_exits_total", "Races ended early by a high-confidence result", "provider")
	m.OCRNoTextFailures = collector.RegisterCounter("ocr_no_text_failures_total", "Analyses aborted because no provider extracted text")

	// Extraction
	m.ExtractionDuration = collector.RegisterHistogram("extraction_duration_seconds", "Entity extraction duration", DefaultHTTPDurationBuckets, "source")
	m.ExtractionEntitiesTotal = collector.RegisterCounter("extraction_entities_total", "Entities extracted", "kind")
	m.ExtractionFallbacksTotal = collector.RegisterCounter("extraction_fallbacks_total", "Remote-parse failures recovered by the local parser")

	// Drug validation
	m.DrugValidationsTotal = collector.RegisterCounter("drug_validations_total", "Drug-name validation requests", "result")
	m.FDALookupsTotal = collector.RegisterCounter("fda_lookups_total", "FDA medication lookups", "outcome")
	m.FDALookupDuration = collector.RegisterHistogram("fda_lookup_duration_seconds", "FDA lookup duration", DefaultHTTPDurationBuckets)

	// Infrastructure
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "query")
	m.StorageOpsTotal = collector.RegisterCounter("storage_ops_total", "Object storage operations", "op", "status")
	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Kafka events published", "topic", "status")

	// System health
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1 healthy, 0 unhealthy)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by code", "code")

	return m
}

// NewNopAppMetrics returns an AppMetrics whose every metric is a no-op.
// Intended for tests and for components constructed without a collector.
func NewNopAppMetrics() *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal:        &noopCounterVec{},
		HTTPRequestDuration:      &noopHistogramVec{},
		HTTPRequestSize:          &noopHistogramVec{},
		HTTPActiveRequests:       &noopGaugeVec{},
		OCRAttemptsTotal:         &noopCounterVec{},
		OCRProviderDuration:      &noopHistogramVec{},
		OCRConfidence:            &noopHistogramVec{},
		OCRRaceEarlyExits:        &noopCounterVec{},
		OCRNoTextFailures:        &noopCounterVec{},
		ExtractionDuration:       &noopHistogramVec{},
		ExtractionEntitiesTotal:  &noopCounterVec{},
		ExtractionFallbacksTotal: &noopCounterVec{},
		DrugValidationsTotal:     &noopCounterVec{},
		FDALookupsTotal:          &noopCounterVec{},
		FDALookupDuration:        &noopHistogramVec{},
		CacheHitsTotal:           &noopCounterVec{},
		CacheMissesTotal:         &noopCounterVec{},
		DBQueryDuration:          &noopHistogramVec{},
		StorageOpsTotal:          &noopCounterVec{},
		EventsPublishedTotal:     &noopCounterVec{},
		HealthCheckStatus:        &noopGaugeVec{},
		ErrorsTotal:              &noopCounterVec{},
	}
}
