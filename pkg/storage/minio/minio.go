// Package minio implements object storage backed by a MinIO or other
// S3-compatible endpoint.
package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/docforge/ingest/config"
	"github.com/docforge/ingest/pkg/logger"
)

type Storage struct {
	client *minio.Client
	bucket string
	log    logger.Logger
}

func New(cfg config.MinioConfig, log logger.Logger) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		err = client.MakeBucket(context.Background(), cfg.Bucket, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &Storage{client: client, bucket: cfg.Bucket, log: log}, nil
}

func (s *Storage) Store(ctx context.Context, reader io.Reader, key string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, -1, minio.PutObjectOptions{})
	if err != nil {
		s.log.Error("failed to store object",
			logger.String("bucket", s.bucket),
			logger.String("key", key),
			logger.Error(err),
		)
		return "", fmt.Errorf("store object %s: %w", key, err)
	}
	return key, nil
}

func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		s.log.Error("failed to get object",
			logger.String("bucket", s.bucket),
			logger.String("key", key),
			logger.Error(err),
		)
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	return obj, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		s.log.Error("failed to delete object",
			logger.String("bucket", s.bucket),
			logger.String("key", key),
			logger.Error(err),
		)
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
