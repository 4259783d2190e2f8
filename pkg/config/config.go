// Package config handles loading and managing medmatch configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/medmatch/medmatch/pkg/scoring"
)

// Config is the top-level configuration shared by the CLI and the daemon.
type Config struct {
	Scoring  ScoringConfig  `yaml:"scoring"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Events   EventsConfig   `yaml:"events"`
	Log      LogConfig      `yaml:"log"`
}

// ScoringConfig controls the ranking engine.
type ScoringConfig struct {
	Weights scoring.Weights `yaml:"weights"`
	Workers int             `yaml:"workers"` // 1 scores sequentially
}

// ServerConfig controls the HTTP daemon.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	MaxBodyBytes    int64    `yaml:"max_body_bytes"`
	RunCacheSize    int      `yaml:"run_cache_size"`
	ShutdownTimeout int      `yaml:"shutdown_timeout"` // seconds
}

// DatabaseConfig controls the run history database. An empty URL disables
// run history.
type DatabaseConfig struct {
	URL         string `yaml:"url"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// StorageConfig controls where ranked runs are archived.
type StorageConfig struct {
	Backend   string `yaml:"backend"` // local, s3, gcs or none
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	LocalPath string `yaml:"local_path"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"` // S3-compatible endpoint, e.g. MinIO
}

// EventsConfig controls run event publishing. No brokers disables it.
type EventsConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Weights: scoring.Defaults(),
			Workers: 1,
		},
		Server: ServerConfig{
			Port:            5000,
			AllowedOrigins:  []string{"http://localhost:5173"},
			MaxBodyBytes:    10 << 20,
			RunCacheSize:    128,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			AutoMigrate: true,
		},
		Storage: StorageConfig{
			Backend:   "local",
			LocalPath: filepath.Join(CacheDir(), "runs"),
		},
		Events: EventsConfig{
			Topic: "medmatch.runs",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the services cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Scoring.Weights.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("scoring.weights: %w", err))
	}
	if c.Scoring.Workers < 1 {
		errs = append(errs, fmt.Errorf("scoring.workers must be at least 1, got %d", c.Scoring.Workers))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes))
	}

	switch c.Storage.Backend {
	case "local", "none", "":
	case "s3", "gcs":
		if c.Storage.Bucket == "" {
			errs = append(errs, fmt.Errorf("storage.bucket is required for the %s backend", c.Storage.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.backend %q", c.Storage.Backend))
	}

	switch c.Log.Format {
	case "text", "json", "":
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// FindConfigFile looks for .medmatch/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".medmatch", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns ~/.cache/medmatch, used for locally archived runs.
func CacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to temp dir if HOME isn't available
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "medmatch")
}
