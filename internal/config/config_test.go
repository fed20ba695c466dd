package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config that passes Validate after defaults.
func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidateDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "server port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "bad server mode",
			mutate:  func(c *Config) { c.Server.Mode = "production" },
			wantErr: "server.mode",
		},
		{
			name:    "missing database host",
			mutate:  func(c *Config) { c.Database.Host = "" },
			wantErr: "database.host",
		},
		{
			name:    "missing redis addr",
			mutate:  func(c *Config) { c.Redis.Addr = "" },
			wantErr: "redis.addr",
		},
		{
			name:    "no kafka brokers",
			mutate:  func(c *Config) { c.Kafka.Brokers = nil },
			wantErr: "kafka.brokers",
		},
		{
			name: "no OCR provider enabled",
			mutate: func(c *Config) {
				c.OCR.TesseractEnabled = false
				c.OCR.RemoteEnabled = false
			},
			wantErr: "OCR provider",
		},
		{
			name: "remote OCR enabled without URL",
			mutate: func(c *Config) {
				c.OCR.RemoteEnabled = true
				c.OCR.RemoteURL = ""
			},
			wantErr: "ocr.remote_url",
		},
		{
			name:    "early exit confidence above 100",
			mutate:  func(c *Config) { c.OCR.EarlyExitConfidence = 120 },
			wantErr: "early_exit_confidence",
		},
		{
			name:    "negative tolerance",
			mutate:  func(c *Config) { c.OCR.ConfidenceTolerance = -1 },
			wantErr: "confidence_tolerance",
		},
		{
			name:    "zero upload limit",
			mutate:  func(c *Config) { c.Upload.MaxFileSize = -5 },
			wantErr: "upload.max_file_size",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: "log.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "logfmt" },
			wantErr: "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
