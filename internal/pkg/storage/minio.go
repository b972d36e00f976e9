package storage

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Secure    bool
}

type MinioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage connects to the server and creates the bucket if needed.
func NewMinioStorage(ctx context.Context, conf MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.Secure,
		Region: conf.Region,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	exists, err := client.BucketExists(ctx, conf.Bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "could not check bucket %q", conf.Bucket)
	}
	if !exists {
		if err := client.MakeBucket(ctx, conf.Bucket, minio.MakeBucketOptions{Region: conf.Region}); err != nil {
			return nil, errors.Wrapf(err, "could not create bucket %q", conf.Bucket)
		}
	}

	return &MinioStorage{client: client, bucket: conf.Bucket}, nil
}

func isMinioNotFound(err error) bool {
	errRes := minio.ToErrorResponse(err)
	return errRes.StatusCode == http.StatusNotFound || errRes.Code == "NoSuchKey"
}

func (s *MinioStorage) Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, path, file, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrapf(err, "could not upload %q", path)
	}
	return path, nil
}

func (s *MinioStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// GetObject is lazy; Stat surfaces a missing key.
	if _, err := object.Stat(); err != nil {
		object.Close()
		if isMinioNotFound(err) {
			return nil, errors.Wrap(ErrFileNotFound, path)
		}
		return nil, errors.WithStack(err)
	}

	return object, nil
}

func (s *MinioStorage) Delete(ctx context.Context, path string) error {
	err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
	if err != nil && !isMinioNotFound(err) {
		return errors.Wrapf(err, "could not remove %q", path)
	}
	return nil
}

func (s *MinioStorage) GetURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = DefaultURLExpiry
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, path, expiry, url.Values{})
	if err != nil {
		return "", errors.WithStack(err)
	}
	return u.String(), nil
}

func (s *MinioStorage) Exists(ctx context.Context, path string) (bool, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{}); err != nil {
		if isMinioNotFound(err) {
			return false, nil
		}
		return false, errors.WithStack(err)
	}
	return true, nil
}
