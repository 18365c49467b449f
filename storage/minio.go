package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"audiolab/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PayloadStore gives access to uploaded audio payloads under their
// derived object paths.
type PayloadStore interface {
	Put(ctx context.Context, path string, payload []byte) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
	Remove(ctx context.Context, path string) error
}

// minioStore implements PayloadStore against a MinIO bucket.
type minioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to MinIO and ensures the payload bucket exists.
func NewMinioStore(cfg *config.Config) (PayloadStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.MinioBucket, err)
		}
		log.Printf("Created payload bucket %q.", cfg.MinioBucket)
	}

	return &minioStore{client: client, bucket: cfg.MinioBucket}, nil
}

func (s *minioStore) Put(ctx context.Context, path string, payload []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, path,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "audio/wav"})
	if err != nil {
		return fmt.Errorf("failed to store payload at %s: %w", path, err)
	}
	return nil
}

func (s *minioStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read payload at %s: %w", path, err)
	}
	return object, nil
}

func (s *minioStore) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat payload at %s: %w", path, err)
	}
	return true, nil
}

func (s *minioStore) Remove(ctx context.Context, path string) error {
	err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove payload at %s: %w", path, err)
	}
	return nil
}
