package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"assetvault/internal/config"
)

// minioGateway implements the Gateway interface using an S3-compatible
// backend (MinIO, AWS S3, etc.). It is safe for concurrent use by multiple
// goroutines.
type minioGateway struct {
	client      *minio.Client
	bucket      string
	uploadTTL   time.Duration
	downloadTTL time.Duration
}

// NewMinIO creates a new S3-compatible gateway backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig, presign config.PresignConfig) (Gateway, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	mg := &minioGateway{
		client:      cli,
		bucket:      cfg.Bucket,
		uploadTTL:   time.Duration(presign.UploadTTLSec) * time.Second,
		downloadTTL: time.Duration(presign.DownloadTTLSec) * time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return mg, nil
}

// PresignPut generates a pre-signed URL for a direct PUT upload.
// The content type is pinned into the signature when provided, so the
// uploader must send the same Content-Type header.
func (m *minioGateway) PresignPut(ctx context.Context, key, contentType string) (Presigned, error) {
	expires := time.Now().UTC().Add(m.uploadTTL)

	var u *url.URL
	var err error
	if contentType != "" {
		u, err = m.client.PresignHeader(ctx, http.MethodPut, m.bucket, key, m.uploadTTL,
			url.Values{}, http.Header{"Content-Type": []string{contentType}})
	} else {
		u, err = m.client.PresignedPutObject(ctx, m.bucket, key, m.uploadTTL)
	}
	if err != nil {
		return Presigned{}, err
	}

	return Presigned{URL: u.String(), Method: http.MethodPut, ExpiresAt: expires}, nil
}

// PresignGet generates a pre-signed URL for GET with the configured expiry.
func (m *minioGateway) PresignGet(ctx context.Context, key string) (Presigned, error) {
	expires := time.Now().UTC().Add(m.downloadTTL)

	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, m.downloadTTL, url.Values{})
	if err != nil {
		return Presigned{}, err
	}
	return Presigned{URL: u.String(), Method: http.MethodGet, ExpiresAt: expires}, nil
}

// Delete removes an object by key. S3 deletes are idempotent: removing a
// missing key returns success, which is what the lifecycle retries rely on.
func (m *minioGateway) Delete(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}
