// Package archive stores the full JSON of ranked runs in blob storage so a
// run can be fetched again after the request that produced it.
package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var (
	// ErrNotFound is returned when no run is archived under the given ID.
	ErrNotFound = errors.New("run not found")
	// ErrInvalidRunID is returned for IDs that cannot name an archived run.
	ErrInvalidRunID = errors.New("invalid run id")
)

var runIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// Store abstracts blob storage for archived runs.
type Store interface {
	PutRun(ctx context.Context, runID string, data []byte) error
	GetRun(ctx context.Context, runID string) ([]byte, error)
}

// Config selects and configures a Store backend.
type Config struct {
	Backend   string // local, s3, gcs or none
	LocalPath string
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Open creates the Store for the configured backend. It returns a nil
// Store for the "none" backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "local":
		if cfg.LocalPath == "" {
			return nil, errors.New("local archive requires a path")
		}
		return NewLocalStore(cfg.LocalPath), nil
	case "s3":
		s, err := NewS3Store(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case "gcs":
		s, err := NewGCSStore(ctx, cfg.Bucket, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}
}

// objectKey is the blob key of a run under an optional prefix.
func objectKey(prefix, runID string) string {
	key := "runs/" + runID + ".json"
	if prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

// validRunID accepts letters, digits, '-' and '_' only, so an ID never
// escapes the archive layout.
func validRunID(runID string) error {
	if !runIDPattern.MatchString(runID) {
		return fmt.Errorf("%w %q", ErrInvalidRunID, runID)
	}
	return nil
}

// LocalStore implements Store using the local filesystem.
// Useful for development and testing.
type LocalStore struct {
	BaseDir string
}

// NewLocalStore creates a LocalStore rooted at the given directory.
func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{BaseDir: baseDir}
}

func (s *LocalStore) path(runID string) string {
	return filepath.Join(s.BaseDir, "runs", runID+".json")
}

// PutRun stores a run blob.
func (s *LocalStore) PutRun(ctx context.Context, runID string, data []byte) error {
	if err := validRunID(runID); err != nil {
		return err
	}
	path := s.path(runID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// GetRun retrieves a run blob.
func (s *LocalStore) GetRun(ctx context.Context, runID string) ([]byte, error) {
	if err := validRunID(runID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(runID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}
