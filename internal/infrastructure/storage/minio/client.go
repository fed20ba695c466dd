// Package minio archives original prescription images in S3-compatible
// object storage so that past analyses can be re-inspected.
package minio

import (
	"context"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rxlens/rxlens/internal/config"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/pkg/errors"
)

// Client wraps the minio SDK client together with the configured bucket.
type Client struct {
	api    *minio.Client
	cfg    config.MinIOConfig
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewClient connects to the configured MinIO endpoint, verifies reachability,
// and creates the archive bucket when it does not exist yet.
func NewClient(cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create minio client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := api.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to connect to minio")
	}
	if !exists {
		if err := api.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create bucket")
		}
		log.Info("created archive bucket", logging.String("bucket", cfg.Bucket))
	}

	log.Info("minio client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
	)
	return &Client{api: api, cfg: cfg, logger: log}, nil
}

// API exposes the underlying SDK client.
func (c *Client) API() *minio.Client {
	return c.api
}

// Bucket returns the configured archive bucket name.
func (c *Client) Bucket() string {
	return c.cfg.Bucket
}

// HealthCheck verifies the endpoint is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return errors.New(errors.ErrCodeStorageError, "minio client is closed")
	}
	c.mu.RUnlock()

	if _, err := c.api.BucketExists(ctx, c.cfg.Bucket); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "minio health check failed")
	}
	return nil
}

// Close marks the client closed.  The SDK holds no persistent connections
// that need teardown.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
