package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorePutGetRun(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir)
	ctx := context.Background()

	data := []byte(`{"matches":[]}`)
	if err := s.PutRun(ctx, "run1", data); err != nil {
		t.Fatalf("PutRun: %v", err)
	}

	got, err := s.GetRun(ctx, "run1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetRun = %q, want %q", got, data)
	}

	// Verify file path layout
	expectedPath := filepath.Join(dir, "runs", "run1.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
}

func TestLocalStoreGetNotFound(t *testing.T) {
	s := NewLocalStore(t.TempDir())

	_, err := s.GetRun(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalStoreRejectsPathTraversal(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", ".", "..", "../escape", "a/b", `a\b`, "run.1", "run 1"} {
		if err := s.PutRun(ctx, id, []byte("{}")); !errors.Is(err, ErrInvalidRunID) {
			t.Errorf("PutRun(%q): expected ErrInvalidRunID, got %v", id, err)
		}
		if _, err := s.GetRun(ctx, id); !errors.Is(err, ErrInvalidRunID) {
			t.Errorf("GetRun(%q): expected ErrInvalidRunID, got %v", id, err)
		}
	}
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix, runID, want string
	}{
		{"", "abc", "runs/abc.json"},
		{"prod", "abc", "prod/runs/abc.json"},
	}
	for _, tc := range tests {
		if got := objectKey(tc.prefix, tc.runID); got != tc.want {
			t.Errorf("objectKey(%q, %q) = %q, want %q", tc.prefix, tc.runID, got, tc.want)
		}
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: "local", LocalPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(local): %v", err)
	}
	if _, ok := s.(*LocalStore); !ok {
		t.Errorf("expected *LocalStore, got %T", s)
	}

	s, err = Open(ctx, Config{Backend: "none"})
	if err != nil || s != nil {
		t.Errorf("Open(none) = %v, %v; want nil, nil", s, err)
	}

	if _, err := Open(ctx, Config{Backend: "ftp"}); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := Open(ctx, Config{Backend: "local"}); err == nil {
		t.Error("expected error for local backend without a path")
	}
	if _, err := Open(ctx, Config{Backend: "s3"}); err == nil {
		t.Error("expected error for s3 backend without a bucket")
	}
}
