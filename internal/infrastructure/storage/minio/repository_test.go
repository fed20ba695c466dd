package minio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxlens/rxlens/internal/config"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/pkg/errors"
)

func TestObjectKeySharding(t *testing.T) {
	assert.Equal(t, "images/ab/abcdef", objectKey("abcdef"))
	assert.Equal(t, "images/x", objectKey("x"))
}

// newTestStore connects to the MinIO instance named by RXLENS_TEST_MINIO_*
// environment variables and skips otherwise.
func newTestStore(t *testing.T) ImageStore {
	t.Helper()
	endpoint := os.Getenv("RXLENS_TEST_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("RXLENS_TEST_MINIO_ENDPOINT not set; skipping minio integration test")
	}
	client, err := NewClient(config.MinIOConfig{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("RXLENS_TEST_MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("RXLENS_TEST_MINIO_SECRET_KEY"),
		Bucket:    "rxlens-test",
	}, logging.NewNop())
	require.NoError(t, err)
	return NewImageStore(client, 0, logging.NewNop())
}

func TestImageRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	data := []byte("fake-png-bytes")
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	require.NoError(t, store.Put(ctx, hash, "image/png", data))

	got, err := store.Get(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	u, err := store.PresignedURL(ctx, hash)
	require.NoError(t, err)
	assert.Contains(t, u, hash)

	require.NoError(t, store.Remove(ctx, hash))
}

func TestPutRequiresHash(t *testing.T) {
	store := &imageStore{logger: logging.NewNop()}
	err := store.Put(context.Background(), "", "image/png", []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}
