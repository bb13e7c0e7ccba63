// Package storage archives generated documents in an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"hrms/internal/platform/config"
)

type Archive struct {
	client *minio.Client
	bucket string
}

// New connects to the configured bucket, creating it when missing. It returns
// nil when object storage is not configured.
func New(ctx context.Context, cfg config.Config) (*Archive, error) {
	if !cfg.StorageEnabled() {
		log.Info("object storage not configured, payslips will not be archived")
		return nil, nil
	}
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "minio client")
	}
	exists, err := client.BucketExists(ctx, cfg.S3Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "check bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.S3Bucket, minio.MakeBucketOptions{Region: "us-east-1"}); err != nil {
			return nil, errors.Wrap(err, "create bucket")
		}
	}
	return &Archive{client: client, bucket: cfg.S3Bucket}, nil
}

func (a *Archive) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrapf(err, "put object %s", key)
	}
	return nil
}
