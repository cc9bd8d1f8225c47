package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStoreConfig holds the MinIO connection settings.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	MaxBytes  int64
}

// ObjectStore keeps frames in a MinIO bucket, one object per handle.
type ObjectStore struct {
	client   *minio.Client
	bucket   string
	maxBytes int64
}

func NewObjectStore(ctx context.Context, cfg ObjectStoreConfig) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	s := &ObjectStore{
		client:   client,
		bucket:   cfg.Bucket,
		maxBytes: cfg.MaxBytes,
	}

	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *ObjectStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	return nil
}

func (s *ObjectStore) Store(ctx context.Context, data []byte, contentType, originalName string) (Handle, error) {
	if err := validateFrame(data, contentType, s.maxBytes); err != nil {
		return "", err
	}

	handle := newHandle(originalName)
	_, err := s.client.PutObject(ctx, s.bucket, string(handle), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put frame %s: %w", handle, err)
	}
	return handle, nil
}

func (s *ObjectStore) Open(ctx context.Context, handle Handle) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, string(handle), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get frame %s: %w", handle, err)
	}

	// GetObject is lazy; a missing key only surfaces on first read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat frame %s: %w", handle, err)
	}

	return obj, nil
}

func (s *ObjectStore) Exists(ctx context.Context, handle Handle) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, string(handle), minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat frame %s: %w", handle, err)
	}
	return true, nil
}

func (s *ObjectStore) Delete(ctx context.Context, handle Handle) error {
	// RemoveObject on a missing key succeeds, matching the idempotency contract.
	if err := s.client.RemoveObject(ctx, s.bucket, string(handle), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete frame %s: %w", handle, err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey"
	}
	return false
}
