package blobhost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pocketaria/internal/blobcodec"
	"pocketaria/internal/library"
	"pocketaria/internal/logging"
)

// MaxPresignRetention is the longest validity an S3 presigned URL supports.
const MaxPresignRetention = 7 * 24 * time.Hour

// S3Config describes an S3-compatible bucket used as a blob host.
type S3Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
	Prefix    string
	Retention time.Duration
	Logger    *slog.Logger
}

// S3 uploads blobs to a bucket and shares them through presigned URLs.
type S3 struct {
	client    *minio.Client
	bucket    string
	prefix    string
	retention time.Duration
	logger    *slog.Logger
}

// NewS3 creates a client for the configured bucket.
func NewS3(cfg S3Config) (*S3, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("s3: bucket is required")
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 72 * time.Hour
	}
	if cfg.Retention > MaxPresignRetention {
		return nil, fmt.Errorf("s3: retention %s exceeds presign limit %s", cfg.Retention, MaxPresignRetention)
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}
	return &S3{
		client:    client,
		bucket:    cfg.Bucket,
		prefix:    strings.Trim(cfg.Prefix, "/"),
		retention: cfg.Retention,
		logger:    logging.NewComponentLogger(cfg.Logger, "s3"),
	}, nil
}

// Name identifies the host in errors and logs.
func (s *S3) Name() string { return "s3" }

// Upload stores the blob under a fresh key and returns a presigned GET URL.
func (s *S3) Upload(ctx context.Context, blob library.Blob, filename string) (string, error) {
	if strings.TrimSpace(filename) == "" {
		filename = "blob"
	}
	key := path.Join(s.prefix, uuid.NewString(), path.Base(filename))
	contentType := blob.Type
	if contentType == "" {
		contentType = blobcodec.DetectMIME(blob.Data, filename)
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(blob.Data), int64(blob.Len()), minio.PutObjectOptions{
		ContentType: contentType,
		Expires:     time.Now().Add(s.retention),
	})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		logging.WarnWithContext(s.logger, "s3 rejected upload", "blobhost_upload_rejected",
			logging.Int("status", resp.StatusCode),
			logging.String("code", resp.Code),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check s3 credentials and bucket policy"),
			logging.String(logging.FieldImpact, "permalink not created"),
		)
		return "", &UploadError{Host: s.Name(), StatusCode: resp.StatusCode, Body: truncate(resp.Message), Err: err}
	}

	signed, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.retention, nil)
	if err != nil {
		return "", &UploadError{Host: s.Name(), Err: fmt.Errorf("presign %s: %w", key, err)}
	}
	s.logger.Debug("blob uploaded",
		logging.String("key", key),
		logging.Int(logging.FieldBytes, blob.Len()),
	)
	return signed.String(), nil
}
