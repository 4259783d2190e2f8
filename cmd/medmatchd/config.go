package main

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/medmatch/medmatch/pkg/config"
)

// flagKeys maps command-line flags to config keys. Each key can also be set
// through the environment as MEDMATCH_<KEY> with dots replaced by
// underscores, e.g. MEDMATCH_DATABASE_URL.
var flagKeys = map[string]string{
	"config":             "config",
	"port":               "server.port",
	"allowed-origins":    "server.allowed_origins",
	"database-url":       "database.url",
	"storage-backend":    "storage.backend",
	"storage-bucket":     "storage.bucket",
	"storage-local-path": "storage.local_path",
	"kafka-brokers":      "events.brokers",
	"log-level":          "log.level",
	"log-format":         "log.format",
}

func registerFlags(f *pflag.FlagSet) {
	f.String("config", "", "Path to config file (default: discover .medmatch/config.yaml)")
	f.Int("port", 0, "Port to listen on")
	f.StringSlice("allowed-origins", nil, "Origins allowed by CORS")
	f.String("database-url", "", "Run history database URL (postgres:// or sqlite://)")
	f.String("storage-backend", "", "Run archive backend: local, s3, gcs or none")
	f.String("storage-bucket", "", "Bucket for the s3 and gcs backends")
	f.String("storage-local-path", "", "Directory for the local backend")
	f.StringSlice("kafka-brokers", nil, "Kafka brokers for run events")
	f.String("log-level", "", "Log level: debug, info, warn or error")
	f.String("log-format", "", "Log format: text or json")
}

func bindFlags(v *viper.Viper, f *pflag.FlagSet) {
	v.SetEnvPrefix("MEDMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		_ = v.BindPFlag(key, f.Lookup(flag))
	}
}

// resolveConfig loads the YAML config file and applies flag and environment
// overrides on top of it. Flags win over the environment.
func resolveConfig(v *viper.Viper) (*config.Config, error) {
	path := v.GetString("config")
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.FindConfigFile(wd)
		}
	}

	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v.IsSet("server.port") {
		cfg.Server.Port = v.GetInt("server.port")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = splitList(v.GetStringSlice("server.allowed_origins"))
	}
	if v.IsSet("database.url") {
		cfg.Database.URL = v.GetString("database.url")
	}
	if v.IsSet("storage.backend") {
		cfg.Storage.Backend = v.GetString("storage.backend")
	}
	if v.IsSet("storage.bucket") {
		cfg.Storage.Bucket = v.GetString("storage.bucket")
	}
	if v.IsSet("storage.local_path") {
		cfg.Storage.LocalPath = v.GetString("storage.local_path")
	}
	if v.IsSet("events.brokers") {
		cfg.Events.Brokers = splitList(v.GetStringSlice("events.brokers"))
	}
	if v.IsSet("log.level") {
		cfg.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("log.format") {
		cfg.Log.Format = v.GetString("log.format")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList flattens comma-separated entries, as written in environment
// variables, and drops empty ones.
func splitList(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
