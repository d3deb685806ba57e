// Package s3storage uploads original image binaries into the media host's
// S3-compatible ingest bucket.
package s3storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/config"
)

// Storage wraps MinIO/S3 interactions for original uploads.
type Storage struct {
	client *minio.Client
	bucket string
	region string
}

// New creates a MinIO client from the Config.
func New(cfg *config.Config) (*Storage, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &Storage{
		client: client,
		bucket: cfg.MediaBucket,
		region: cfg.S3Region,
	}, nil
}

// EnsureBucket makes sure the originals bucket exists before use.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// UploadOriginal uploads one image binary under the given asset key. The key
// becomes the photo's media asset id.
func (s *Storage) UploadOriginal(ctx context.Context, assetKey string, reader io.Reader, size int64, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	_, err := s.client.PutObject(ctx, s.bucket, assetKey, reader, size, opts)
	if err != nil {
		return fmt.Errorf("upload original %s: %w", assetKey, err)
	}
	return nil
}

// PresignOriginalURL returns a signed GET URL for a stored original, used to
// spot-check uploads from the CLI.
func (s *Storage) PresignOriginalURL(ctx context.Context, assetKey string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, assetKey, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign original %s: %w", assetKey, err)
	}
	return u.String(), nil
}
