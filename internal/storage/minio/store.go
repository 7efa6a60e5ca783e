// Package minio implements the directory storage contract on an S3
// compatible bucket: every key is one object.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/dtroode/keydir/internal/model"
)

const (
	contentType = "application/json"
	noSuchKey   = "NoSuchKey"
)

// minioAPI is the subset of *minio.Client used by the store, so tests can
// run without a MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// clientWrapper adapts *minio.Client to minioAPI; GetObject returns a
// concrete *minio.Object there.
type clientWrapper struct {
	*minio.Client
}

func (w clientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := w.Client.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

var _ model.Backend = (*Store)(nil)

// Store is an object-storage-backed document store.
type Store struct {
	api    minioAPI
	bucket string
}

// New creates a store on top of a configured *minio.Client.
func New(ctx context.Context, client *minio.Client, bucket string) (*Store, error) {
	return NewWithAPI(ctx, clientWrapper{Client: client}, bucket)
}

// NewWithAPI allows injecting a fake API. The bucket is created when absent.
func NewWithAPI(ctx context.Context, api minioAPI, bucket string) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	s := &Store{
		api:    api,
		bucket: bucket,
	}

	if err := s.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return s, nil
}

func (s *Store) ensureBucketExists(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	err = s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil {
		// lost a creation race with another instance
		if code := minio.ToErrorResponse(err).Code; code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists" {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (model.Document, bool, error) {
	if err := model.ValidateKey(key); err != nil {
		return nil, false, err
	}

	obj, err := s.api.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: get object %q: %v", model.ErrStorage, key, err)
	}
	defer obj.Close()

	// *minio.Object defers the request until the first read
	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: read object %q: %v", model.ErrStorage, key, err)
	}
	return data, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value model.Document) error {
	if err := model.ValidateKey(key); err != nil {
		return err
	}

	_, err := s.api.PutObject(ctx, s.bucket, key, bytes.NewReader(value), int64(len(value)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("%w: put object %q: %v", model.ErrStorage, key, err)
	}
	return nil
}

// Delete stats the object first because RemoveObject succeeds on missing
// keys and cannot tell whether anything was removed.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if err := model.ValidateKey(key); err != nil {
		return false, err
	}

	if _, err := s.api.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: stat object %q: %v", model.ErrStorage, key, err)
	}

	if err := s.api.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("%w: remove object %q: %v", model.ErrStorage, key, err)
	}
	return true, nil
}

func (s *Store) Close() error {
	return nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == noSuchKey
}
