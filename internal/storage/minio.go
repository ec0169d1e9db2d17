package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sideline-app/client/config"
)

// MinioClient keeps resumes in a MinIO or S3-compatible bucket.
type MinioClient struct {
	api       *minio.Client
	bucket    string
	publicURL string
}

func NewMinioClient(cfg config.MinioConfig, publicURL string) (*MinioClient, error) {
	switch {
	case strings.TrimSpace(cfg.Endpoint) == "":
		return nil, errors.New("MINIO_ENDPOINT must be set for the minio backend")
	case strings.TrimSpace(cfg.AccessKey) == "", strings.TrimSpace(cfg.SecretKey) == "":
		return nil, errors.New("MINIO_ACCESS_KEY and MINIO_SECRET_KEY must be set for the minio backend")
	case strings.TrimSpace(cfg.Bucket) == "":
		return nil, errors.New("MINIO_BUCKET must be set for the minio backend")
	}

	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client for %s: %w", cfg.Endpoint, err)
	}
	return &MinioClient{api: api, bucket: cfg.Bucket, publicURL: publicURL}, nil
}

func (m *MinioClient) EnsureBucket(ctx context.Context) error {
	ok, err := m.api.BucketExists(ctx, m.bucket)
	if err != nil || ok {
		return err
	}
	return m.api.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
}

// Put stores a resume so browsers render it inline rather than download it.
func (m *MinioClient) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := m.api.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:        contentType,
		ContentDisposition: "inline",
		CacheControl:       "private, max-age=3600",
	})
	return err
}

func (m *MinioClient) Delete(ctx context.Context, key string) error {
	return m.api.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

// URL prefers the configured public base and falls back to the bucket path
// on the endpoint.
func (m *MinioClient) URL(key string) string {
	if m.publicURL != "" {
		return publicObjectURL(m.publicURL, key)
	}
	u := *m.api.EndpointURL()
	u.Path = path.Join("/", m.bucket, key)
	return u.String()
}

func (m *MinioClient) Bucket() string { return m.bucket }

func (m *MinioClient) Close() error { return nil }
