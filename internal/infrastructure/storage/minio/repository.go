package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/pkg/errors"
)

// ImageStore archives original prescription images keyed by their SHA-256
// content hash.
type ImageStore interface {
	Put(ctx context.Context, imageHash string, contentType string, data []byte) error
	Get(ctx context.Context, imageHash string) ([]byte, error)
	PresignedURL(ctx context.Context, imageHash string) (string, error)
	Remove(ctx context.Context, imageHash string) error
}

type imageStore struct {
	client        *Client
	logger        logging.Logger
	presignExpiry time.Duration
}

// NewImageStore builds an ImageStore on top of client.
func NewImageStore(client *Client, presignExpiry time.Duration, log logging.Logger) ImageStore {
	if presignExpiry == 0 {
		presignExpiry = 24 * time.Hour
	}
	return &imageStore{client: client, logger: log, presignExpiry: presignExpiry}
}

// objectKey shards objects by the first two hash characters to keep listings
// manageable.
func objectKey(imageHash string) string {
	if len(imageHash) < 2 {
		return "images/" + imageHash
	}
	return fmt.Sprintf("images/%s/%s", imageHash[:2], imageHash)
}

func (s *imageStore) Put(ctx context.Context, imageHash string, contentType string, data []byte) error {
	if imageHash == "" {
		return errors.InvalidParam("image hash is required")
	}
	_, err := s.client.API().PutObject(ctx, s.client.Bucket(), objectKey(imageHash),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to archive image")
	}
	s.logger.Debug("archived prescription image",
		logging.String("image_hash", imageHash),
		logging.Int("size", len(data)),
	)
	return nil
}

func (s *imageStore) Get(ctx context.Context, imageHash string) ([]byte, error) {
	obj, err := s.client.API().GetObject(ctx, s.client.Bucket(), objectKey(imageHash), minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to fetch archived image")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		respErr := minio.ToErrorResponse(err)
		if respErr.Code == "NoSuchKey" {
			return nil, errors.NotFound("archived image not found").WithDetail("hash=" + imageHash)
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to read archived image")
	}
	return data, nil
}

func (s *imageStore) PresignedURL(ctx context.Context, imageHash string) (string, error) {
	u, err := s.client.API().PresignedGetObject(ctx, s.client.Bucket(), objectKey(imageHash), s.presignExpiry, url.Values{})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "failed to presign image URL")
	}
	return u.String(), nil
}

func (s *imageStore) Remove(ctx context.Context, imageHash string) error {
	err := s.client.API().RemoveObject(ctx, s.client.Bucket(), objectKey(imageHash), minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to remove archived image")
	}
	return nil
}
