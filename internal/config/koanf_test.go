// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Database.Path != "/data/smartbuy.duckdb" {
		t.Errorf("Database.Path = %q, want /data/smartbuy.duckdb", cfg.Database.Path)
	}
	if cfg.Database.QueryTimeout != 30*time.Second {
		t.Errorf("Database.QueryTimeout = %v, want 30s", cfg.Database.QueryTimeout)
	}
	if cfg.Database.SeedDemoEnabled() {
		t.Error("demo seeding should be disabled by default")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Recommend.EmbeddingDim != 50 || cfg.Recommend.Hidden1 != 128 || cfg.Recommend.Hidden2 != 64 {
		t.Errorf("model widths = %d/%d/%d, want 50/128/64",
			cfg.Recommend.EmbeddingDim, cfg.Recommend.Hidden1, cfg.Recommend.Hidden2)
	}
	if cfg.Recommend.RefreshInterval != 24*time.Hour {
		t.Errorf("Recommend.RefreshInterval = %v, want 24h", cfg.Recommend.RefreshInterval)
	}
	if cfg.Recommend.MinNavigationsForPersonal != 5 {
		t.Errorf("Recommend.MinNavigationsForPersonal = %d, want 5", cfg.Recommend.MinNavigationsForPersonal)
	}
	if cfg.Ingest.Topic != "navigation.recorded" {
		t.Errorf("Ingest.Topic = %q, want navigation.recorded", cfg.Ingest.Topic)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"DUCKDB_PATH", "database.path"},
		{"DUCKDB_MAX_MEMORY", "database.max_memory"},
		{"SEED_DEMO_USERS", "database.seed_demo_users"},
		{"HTTP_PORT", "server.port"},
		{"TRAIN_RATE_LIMIT", "server.train_rate_limit"},
		{"LOG_LEVEL", "logging.level"},
		{"log_format", "logging.format"},
		{"RECOMMEND_MIN_NAVIGATIONS", "recommend.min_navigations_for_personal"},
		{"RECOMMEND_CHECK_INTERVAL", "recommend.check_interval"},
		{"INGEST_RETRY_INTERVAL", "ingest.retry_initial_interval"},
		{"SUPERVISOR_SHUTDOWN_TIMEOUT", "supervisor.shutdown_timeout"},

		// Unknown (should return empty)
		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if result := envTransformFunc(tt.input); result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Database.MaxMemory != "1GB" {
		t.Errorf("Database.MaxMemory = %q, want 1GB", cfg.Database.MaxMemory)
	}
	if cfg.Supervisor.FailureBackoff != 15*time.Second {
		t.Errorf("Supervisor.FailureBackoff = %v, want 15s", cfg.Supervisor.FailureBackoff)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DUCKDB_PATH", ":memory:")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECOMMEND_EPOCHS", "3")
	t.Setenv("RECOMMEND_CHECK_INTERVAL", "15m")
	t.Setenv("INGEST_RETRY_COUNT", "0")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Database.Path != ":memory:" {
		t.Errorf("Database.Path = %q, want :memory:", cfg.Database.Path)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.Epochs != 3 {
		t.Errorf("Recommend.Epochs = %d, want 3", cfg.Recommend.Epochs)
	}
	if cfg.Recommend.CheckInterval != 15*time.Minute {
		t.Errorf("Recommend.CheckInterval = %v, want 15m", cfg.Recommend.CheckInterval)
	}
	if cfg.Ingest.RetryCount != 0 {
		t.Errorf("Ingest.RetryCount = %d, want 0", cfg.Ingest.RetryCount)
	}
}

func TestLoadWithKoanf_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
database:
  path: /tmp/shop.duckdb
  seed_demo_users: 20
  seed_demo_per_user: 10
server:
  port: 7000
recommend:
  embedding_dim: 16
  train_on_startup: false
logging:
  format: console
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7100")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/shop.duckdb" {
		t.Errorf("Database.Path = %q, want file value", cfg.Database.Path)
	}
	if !cfg.Database.SeedDemoEnabled() {
		t.Error("demo seeding should be enabled from file")
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("Server.Port = %d, want env override 7100", cfg.Server.Port)
	}
	if cfg.Recommend.EmbeddingDim != 16 {
		t.Errorf("Recommend.EmbeddingDim = %d, want 16", cfg.Recommend.EmbeddingDim)
	}
	if cfg.Recommend.TrainOnStartup {
		t.Error("Recommend.TrainOnStartup should be false from file")
	}
	if cfg.Recommend.Hidden1 != 128 {
		t.Errorf("Recommend.Hidden1 = %d, want default 128", cfg.Recommend.Hidden1)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
}

func TestLoadWithKoanf_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("database: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoadWithKoanf_ValidationFailure(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("LOG_FORMAT", "xml")

	_, err := LoadWithKoanf()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "logging.format") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "absent.yaml"))
	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty", got)
	}
}
