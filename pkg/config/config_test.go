package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != 5000 {
		t.Errorf("expected default port 5000, got %d", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("unexpected default origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Scoring.Weights.RecommendThreshold != 10 {
		t.Errorf("expected recommend threshold 10, got %d", cfg.Scoring.Weights.RecommendThreshold)
	}
	if cfg.Scoring.Workers != 1 {
		t.Errorf("expected 1 worker, got %d", cfg.Scoring.Workers)
	}
	if cfg.Storage.Backend != "local" {
		t.Errorf("expected local storage, got %q", cfg.Storage.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "partial override keeps defaults",
			yaml: `
scoring:
  workers: 4
  weights:
    expired_penalty: 50
    recommend_threshold: 20
server:
  port: 8080
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Scoring.Workers != 4 {
					t.Errorf("expected 4 workers, got %d", cfg.Scoring.Workers)
				}
				if cfg.Scoring.Weights.ExpiredPenalty != 50 {
					t.Errorf("expected expired penalty 50, got %d", cfg.Scoring.Weights.ExpiredPenalty)
				}
				if cfg.Scoring.Weights.RecommendThreshold != 20 {
					t.Errorf("expected threshold 20, got %d", cfg.Scoring.Weights.RecommendThreshold)
				}
				if cfg.Scoring.Weights.ExpiringSoonPenalty != 15 {
					t.Errorf("expected untouched expiring soon penalty 15, got %d", cfg.Scoring.Weights.ExpiringSoonPenalty)
				}
				if len(cfg.Scoring.Weights.RequiredFields) != 4 {
					t.Errorf("expected default required fields, got %v", cfg.Scoring.Weights.RequiredFields)
				}
				if cfg.Server.Port != 8080 {
					t.Errorf("expected port 8080, got %d", cfg.Server.Port)
				}
				if cfg.Server.MaxBodyBytes != 10<<20 {
					t.Errorf("expected default body limit, got %d", cfg.Server.MaxBodyBytes)
				}
			},
		},
		{
			name: "storage and events",
			yaml: `
storage:
  backend: s3
  bucket: medmatch-runs
  endpoint: http://localhost:9000
events:
  brokers: [localhost:9092]
database:
  url: sqlite://medmatch.db
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Storage.Backend != "s3" || cfg.Storage.Bucket != "medmatch-runs" {
					t.Errorf("unexpected storage %+v", cfg.Storage)
				}
				if len(cfg.Events.Brokers) != 1 || cfg.Events.Topic != "medmatch.runs" {
					t.Errorf("unexpected events %+v", cfg.Events)
				}
				if cfg.Database.URL != "sqlite://medmatch.db" {
					t.Errorf("unexpected database url %q", cfg.Database.URL)
				}
			},
		},
		{
			name:    "invalid YAML returns error",
			yaml:    "{{invalid yaml",
			wantErr: "parsing config",
		},
		{
			name: "negative weight is rejected",
			yaml: `
scoring:
  weights:
    missing_field_penalty: -1
`,
			wantErr: "missing_field_penalty",
		},
		{
			name: "bucket required for s3",
			yaml: `
storage:
  backend: s3
`,
			wantErr: "storage.bucket",
		},
		{
			name: "unknown backend",
			yaml: `
storage:
  backend: ftp
`,
			wantErr: "unknown storage.backend",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}

			cfg, err := Load(path)
			if tc.wantErr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tc.wantErr) {
					t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.check(t, cfg)
		})
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Run("found in parent", func(t *testing.T) {
		root := t.TempDir()
		configDir := filepath.Join(root, ".medmatch")
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			t.Fatalf("create config dir: %v", err)
		}
		configPath := filepath.Join(configDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("{}"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		sub := filepath.Join(root, "a", "b", "c")
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatalf("create sub: %v", err)
		}

		got := FindConfigFile(sub)
		if got != configPath {
			t.Errorf("FindConfigFile = %q, want %q", got, configPath)
		}
	})

	t.Run("not found", func(t *testing.T) {
		root := t.TempDir()
		got := FindConfigFile(root)
		if got != "" {
			t.Errorf("FindConfigFile = %q, want empty", got)
		}
	})
}

func TestCacheDir(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	if got := CacheDir(); got != filepath.Join("/home/tester", ".cache", "medmatch") {
		t.Errorf("CacheDir = %q", got)
	}
}
