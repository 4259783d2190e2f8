package archive

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
)

// GCSStore implements Store using Google Cloud Storage.
type GCSStore struct {
	client *gcs.Client
	bucket string
	prefix string
}

// NewGCSStore creates a GCS-backed Store.
// It uses Application Default Credentials (works with Workload Identity, SA keys, gcloud auth).
func NewGCSStore(ctx context.Context, bucket, prefix string) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("gcs archive requires a bucket")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *GCSStore) PutRun(ctx context.Context, runID string, data []byte) error {
	if err := validRunID(runID); err != nil {
		return err
	}
	key := objectKey(s.prefix, runID)
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("gcs write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close %s: %w", key, err)
	}
	return nil
}

func (s *GCSStore) GetRun(ctx context.Context, runID string) ([]byte, error) {
	if err := validRunID(runID); err != nil {
		return nil, err
	}
	key := objectKey(s.prefix, runID)
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gcs read %s: %w", key, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}
