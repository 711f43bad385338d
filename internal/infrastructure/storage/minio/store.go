// Package minio stores complaint evidence files in S3-compatible object
// storage.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/laborguard/complaint-service/internal/config"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/pkg/errors"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

// EvidenceStore persists complaint attachments.  Objects are keyed as
// complaints/<complaint-id>/<attachment-id>/<filename> so evidence for one
// complaint can be listed or removed together.
type EvidenceStore struct {
	client        *minio.Client
	bucket        string
	presignExpiry time.Duration
	log           logging.Logger
}

// StoredObject describes an uploaded evidence file.
type StoredObject struct {
	Key  string
	URL  string
	Size int64
}

// NewEvidenceStore connects to the object store and ensures the bucket
// exists.
func NewEvidenceStore(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*EvidenceStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create object storage client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to check bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create bucket")
		}
		log.Info("evidence bucket created", logging.String("bucket", cfg.Bucket))
	}

	return &EvidenceStore{
		client:        client,
		bucket:        cfg.Bucket,
		presignExpiry: cfg.PresignExpiry,
		log:           log,
	}, nil
}

// Put uploads one evidence file and returns its object key.
func (s *EvidenceStore) Put(ctx context.Context, complaintID common.ID, filename, contentType string,
	r io.Reader, size int64) (*StoredObject, error) {

	key := path.Join("complaints", complaintID, common.NewID(), path.Base(filename))

	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to store evidence file")
	}

	s.log.Info("evidence stored",
		logging.String("complaint_id", complaintID),
		logging.String("key", key),
		logging.Int64("size", info.Size),
	)
	return &StoredObject{
		Key:  key,
		URL:  fmt.Sprintf("s3://%s/%s", s.bucket, key),
		Size: info.Size,
	}, nil
}

// KeyFromURL extracts the object key from a stored s3:// attachment URL.
// The boolean is false when the URL does not belong to this store's bucket.
func (s *EvidenceStore) KeyFromURL(raw string) (string, bool) {
	prefix := fmt.Sprintf("s3://%s/", s.bucket)
	if !strings.HasPrefix(raw, prefix) {
		return "", false
	}
	return strings.TrimPrefix(raw, prefix), true
}

// PresignedGet returns a time-limited download URL for an evidence object.
func (s *EvidenceStore) PresignedGet(ctx context.Context, key string) (string, error) {
	reqParams := make(url.Values)
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.presignExpiry, reqParams)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "failed to presign evidence download")
	}
	return u.String(), nil
}

// Remove deletes one evidence object.
func (s *EvidenceStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to remove evidence file")
	}
	return nil
}
