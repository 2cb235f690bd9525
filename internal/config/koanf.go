// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/smartbuy/config.yaml",
	"/etc/smartbuy/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:                   "/data/smartbuy.duckdb",
			MaxMemory:              "1GB",
			Threads:                0, // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true,
			QueryTimeout:           30 * time.Second,
			SeedFile:               "",
			SeedDemoUsers:          0,
			SeedDemoPerUser:        0,
			SeedDemoRandomSeed:     1,
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			TrainRateLimit:  2,
			TrainRateWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
			EmbeddingDim:              50,
			Hidden1:                   128,
			Hidden2:                   64,
			Epochs:                    10,
			BatchSize:                 64,
			LearningRate:              0.001,
			Seed:                      42,
			MinDocumentFrequency:      2,
			MaxDocumentRatio:          0.95,
			ScoreThreshold:            0.1,
			MinNavigationsForPersonal: 5,
			RefreshInterval:           24 * time.Hour,
			LoadTimeout:               30 * time.Second,
			TrainOnStartup:            true,
			CheckInterval:             time.Hour,
		},
		Ingest: IngestConfig{
			Topic:                "navigation.recorded",
			BufferSize:           1024,
			RetryCount:           3,
			RetryInitialInterval: 100 * time.Millisecond,
			RetryMaxInterval:     2 * time.Second,
			CloseTimeout:         30 * time.Second,
		},
		// Matches suture's built-in defaults
		Supervisor: SupervisorConfig{
			FailureThreshold: 5.0,
			FailureDecay:     30.0,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// DUCKDB_PATH -> database.path, RECOMMEND_EPOCHS -> recommend.epochs
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Database mappings
	"duckdb_path":                     "database.path",
	"duckdb_max_memory":               "database.max_memory",
	"duckdb_threads":                  "database.threads",
	"duckdb_preserve_insertion_order": "database.preserve_insertion_order",
	"duckdb_query_timeout":            "database.query_timeout",
	"seed_file":                       "database.seed_file",
	"seed_demo_users":                 "database.seed_demo_users",
	"seed_demo_per_user":              "database.seed_demo_per_user",
	"seed_demo_random_seed":           "database.seed_demo_random_seed",

	// Server mappings
	"http_port":         "server.port",
	"http_host":         "server.host",
	"http_timeout":      "server.timeout",
	"train_rate_limit":  "server.train_rate_limit",
	"train_rate_window": "server.train_rate_window",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine mappings
	"recommend_embedding_dim":          "recommend.embedding_dim",
	"recommend_hidden1":                "recommend.hidden1",
	"recommend_hidden2":                "recommend.hidden2",
	"recommend_epochs":                 "recommend.epochs",
	"recommend_batch_size":             "recommend.batch_size",
	"recommend_learning_rate":          "recommend.learning_rate",
	"recommend_seed":                   "recommend.seed",
	"recommend_min_document_frequency": "recommend.min_document_frequency",
	"recommend_max_document_ratio":     "recommend.max_document_ratio",
	"recommend_score_threshold":        "recommend.score_threshold",
	"recommend_min_navigations":        "recommend.min_navigations_for_personal",
	"recommend_refresh_interval":       "recommend.refresh_interval",
	"recommend_load_timeout":           "recommend.load_timeout",
	"recommend_train_on_startup":       "recommend.train_on_startup",
	"recommend_check_interval":         "recommend.check_interval",

	// Ingest router mappings
	"ingest_topic":          "ingest.topic",
	"ingest_buffer_size":    "ingest.buffer_size",
	"ingest_retry_count":    "ingest.retry_count",
	"ingest_retry_interval": "ingest.retry_initial_interval",
	"ingest_retry_max":      "ingest.retry_max_interval",
	"ingest_close_timeout":  "ingest.close_timeout",

	// Supervisor mappings
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
//   - RECOMMEND_MIN_NAVIGATIONS -> recommend.min_navigations_for_personal
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
