package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultDBHost, cfg.Database.Host)
	assert.Equal(t, DefaultDBName, cfg.Database.DBName)
	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, DefaultRedisKeyPrefix, cfg.Redis.KeyPrefix)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultMinIOBucket, cfg.MinIO.Bucket)

	// OCR defaults: tesseract on, race thresholds populated.
	assert.True(t, cfg.OCR.TesseractEnabled)
	assert.Equal(t, DefaultTesseractPSM, cfg.OCR.TesseractPSM)
	assert.Equal(t, DefaultTesseractOEM, cfg.OCR.TesseractOEM)
	assert.Equal(t, DefaultEarlyExitConfidence, cfg.OCR.EarlyExitConfidence)
	assert.Equal(t, DefaultConfidenceTolerance, cfg.OCR.ConfidenceTolerance)

	assert.Equal(t, int64(DefaultMaxFileSize), cfg.Upload.MaxFileSize)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9090
	cfg.Redis.DefaultTTL = 5 * time.Minute
	cfg.OCR.EarlyExitConfidence = 92.5
	cfg.Upload.MaxFileSize = 1 << 20

	ApplyDefaults(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Redis.DefaultTTL)
	assert.Equal(t, 92.5, cfg.OCR.EarlyExitConfidence)
	assert.Equal(t, int64(1<<20), cfg.Upload.MaxFileSize)
}

func TestApplyDefaultsNilSafe(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestRemoteOnlyProviderSurvivesDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.OCR.RemoteEnabled = true
	cfg.OCR.RemoteURL = "http://vision.internal/ocr"
	ApplyDefaults(cfg)

	// Explicit remote-only setups must not have tesseract force-enabled.
	assert.False(t, cfg.OCR.TesseractEnabled)
	assert.True(t, cfg.OCR.RemoteEnabled)
}
