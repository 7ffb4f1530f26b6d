package minio

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioProvider is the blob store: attachment files live here, and the
// avatar pipeline writes synthesized speech audio into it. Upload
// mechanics stay on the client side; the backend only stores pipeline
// output and signs download URLs.
type MinioProvider struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewMinioProvider(cfg *config.Config, logger *zap.Logger) (*MinioProvider, error) {
	endpoint := cfg.MinioURL
	secure := false
	if strings.HasPrefix(endpoint, "https://") {
		secure = true
	}
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")

	if _, err := url.Parse("//" + endpoint); err != nil {
		return nil, fmt.Errorf("failed to parse minio URL: %w", err)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioUser, cfg.MinioPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	provider := &MinioProvider{
		client: client,
		bucket: cfg.MinioBucket,
		logger: logger,
	}

	if err := provider.ensureBucket(); err != nil {
		return nil, err
	}

	logger.Info("MinIO initialized", zap.String("endpoint", endpoint), zap.String("bucket", cfg.MinioBucket))
	return provider, nil
}

func (m *MinioProvider) ensureBucket() error {
	ctx := context.Background()

	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		m.logger.Info("Created MinIO bucket", zap.String("bucket", m.bucket))
	}
	return nil
}

// PutObject stores a blob under the given key.
func (m *MinioProvider) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store object %s: %w", key, err)
	}
	return nil
}

// PresignedURL signs a time-limited download link for a stored blob.
func (m *MinioProvider) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = time.Hour
	}
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s: %w", key, err)
	}
	return u.String(), nil
}

func (m *MinioProvider) RemoveObject(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}
