// Package config provides configuration loading, defaults, and validation for
// the RxLens service.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "debug"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "rxlens"
	DefaultDBMaxConns = 25

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisTTL       = time.Hour
	DefaultRedisKeyPrefix = "rxlens:"

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "rxlens-workers"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "rxlens-prescriptions"

	DefaultTesseractPath = "tesseract"
	DefaultTesseractLang = "eng"
	// Page segmentation mode 6 treats the image as a single uniform block of
	// text, which fits prescription labels far better than full page analysis.
	DefaultTesseractPSM = 6
	// OCR engine mode 1 selects the LSTM engine.
	DefaultTesseractOEM = 1

	DefaultEarlyExitConfidence = 85.0
	DefaultConfidenceTolerance = 10.0

	DefaultParsingTimeout = 15 * time.Second
	DefaultFDATimeout     = 10 * time.Second

	DefaultMaxFileSize = 10 << 20 // 10 MiB

	DefaultWorkerConcurrency = 4

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  It must run after
// unmarshalling and before Validate() so that optional-but-defaulted fields
// are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "rxlens"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = "migrations"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = 24 * time.Hour
	}

	// ── OCR ───────────────────────────────────────────────────────────────────
	if !cfg.OCR.TesseractEnabled && !cfg.OCR.RemoteEnabled {
		cfg.OCR.TesseractEnabled = true
	}
	if cfg.OCR.TesseractPath == "" {
		cfg.OCR.TesseractPath = DefaultTesseractPath
	}
	if cfg.OCR.TesseractLang == "" {
		cfg.OCR.TesseractLang = DefaultTesseractLang
	}
	if cfg.OCR.TesseractPSM == 0 {
		cfg.OCR.TesseractPSM = DefaultTesseractPSM
	}
	if cfg.OCR.TesseractOEM == 0 {
		cfg.OCR.TesseractOEM = DefaultTesseractOEM
	}
	if cfg.OCR.RemoteTimeout == 0 {
		cfg.OCR.RemoteTimeout = 30 * time.Second
	}
	if cfg.OCR.EarlyExitConfidence == 0 {
		cfg.OCR.EarlyExitConfidence = DefaultEarlyExitConfidence
	}
	if cfg.OCR.ConfidenceTolerance == 0 {
		cfg.OCR.ConfidenceTolerance = DefaultConfidenceTolerance
	}

	// ── Parsing ───────────────────────────────────────────────────────────────
	if cfg.Parsing.Timeout == 0 {
		cfg.Parsing.Timeout = DefaultParsingTimeout
	}

	// ── FDA ───────────────────────────────────────────────────────────────────
	if cfg.FDA.BaseURL == "" {
		cfg.FDA.BaseURL = "https://api.fda.gov"
	}
	if cfg.FDA.Timeout == 0 {
		cfg.FDA.Timeout = DefaultFDATimeout
	}

	// ── Upload ────────────────────────────────────────────────────────────────
	if cfg.Upload.MaxFileSize == 0 {
		cfg.Upload.MaxFileSize = DefaultMaxFileSize
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
