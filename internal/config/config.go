// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/smartbuy/internal/validation"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	db, err := database.New(&cfg.Database)
type Config struct {
	Database   DatabaseConfig   `koanf:"database"`
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Ingest     IngestConfig     `koanf:"ingest"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory" validate:"required,memsize"`

	// Threads is the DuckDB worker count (0 = use NumCPU).
	Threads int `koanf:"threads" validate:"gte=0,lte=256"`

	// PreserveInsertionOrder mirrors the DuckDB setting (default true).
	PreserveInsertionOrder bool `koanf:"preserve_insertion_order"`

	// QueryTimeout is the per-query deadline for store reads.
	QueryTimeout time.Duration `koanf:"query_timeout" validate:"gt=0"`

	// SeedFile is a JSON fixture loaded at startup when set.
	SeedFile string `koanf:"seed_file"`

	// Generated demo navigations (0 users = disabled)
	SeedDemoUsers      int   `koanf:"seed_demo_users" validate:"gte=0"`
	SeedDemoPerUser    int   `koanf:"seed_demo_per_user" validate:"gte=0"`
	SeedDemoRandomSeed int64 `koanf:"seed_demo_random_seed"`
}

// ServerConfig holds operations HTTP server settings
type ServerConfig struct {
	Port    int           `koanf:"port" validate:"gte=1,lte=65535"`
	Host    string        `koanf:"host" validate:"required"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// TrainRateLimit is the number of train requests allowed per client
	// in each TrainRateWindow.
	TrainRateLimit  int           `koanf:"train_rate_limit" validate:"gte=1"`
	TrainRateWindow time.Duration `koanf:"train_rate_window" validate:"gt=0"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error, fatal, panic.
	// Default: info
	Level string `koanf:"level" validate:"loglevel"`

	// Format is the output format: json (production) or console (development).
	// Default: json
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller adds file:line to log entries.
	// Default: false
	Caller bool `koanf:"caller"`
}

// RecommendConfig holds ranking engine and retrain schedule settings.
type RecommendConfig struct {
	// Two-tower model
	EmbeddingDim int     `koanf:"embedding_dim" validate:"gte=1"`
	Hidden1      int     `koanf:"hidden1" validate:"gte=1"`
	Hidden2      int     `koanf:"hidden2" validate:"gte=1"`
	Epochs       int     `koanf:"epochs" validate:"gte=1"`
	BatchSize    int     `koanf:"batch_size" validate:"gte=1"`
	LearningRate float64 `koanf:"learning_rate" validate:"gt=0"`
	Seed         int64   `koanf:"seed"`

	// Lexical index
	MinDocumentFrequency int     `koanf:"min_document_frequency" validate:"gte=1"`
	MaxDocumentRatio     float64 `koanf:"max_document_ratio" validate:"gt=0,lte=1"`
	ScoreThreshold       float64 `koanf:"score_threshold" validate:"gte=0,lt=1"`

	// Source selection
	MinNavigationsForPersonal int `koanf:"min_navigations_for_personal" validate:"gte=0"`

	// RefreshInterval is the snapshot age after which a non-forced train retrains.
	// Default: 24h
	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"gte=0"`

	// LoadTimeout bounds each store read made while training.
	LoadTimeout time.Duration `koanf:"load_timeout" validate:"gt=0"`

	// TrainOnStartup trains once as soon as the retrain service starts.
	TrainOnStartup bool `koanf:"train_on_startup"`

	// CheckInterval is how often the retrain service asks the engine to
	// refresh; the engine's own throttle decides whether training runs.
	CheckInterval time.Duration `koanf:"check_interval" validate:"gt=0"`
}

// IngestConfig holds navigation ingestion settings (Watermill router).
type IngestConfig struct {
	// Topic carries navigation events from publishers to the store handler.
	Topic string `koanf:"topic" validate:"required"`

	// BufferSize is the gochannel output buffer per subscriber.
	BufferSize int64 `koanf:"buffer_size" validate:"gte=0"`

	// Router retry middleware settings
	RetryCount           int           `koanf:"retry_count" validate:"gte=0"`
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval" validate:"gt=0"`
	RetryMaxInterval     time.Duration `koanf:"retry_max_interval" validate:"gt=0"`

	// CloseTimeout bounds router shutdown.
	CloseTimeout time.Duration `koanf:"close_timeout" validate:"gt=0"`
}

// SupervisorConfig holds suture tree settings
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold" validate:"gt=0"`
	FailureDecay     float64       `koanf:"failure_decay" validate:"gt=0"`
	FailureBackoff   time.Duration `koanf:"failure_backoff" validate:"gt=0"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// Load reads configuration using Koanf with layered sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Validate checks struct constraints first, then settings that depend on
// each other.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	return c.validateIngest()
}

// validateDatabase requires both demo seeding counts or neither.
func (c *Config) validateDatabase() error {
	users, perUser := c.Database.SeedDemoUsers, c.Database.SeedDemoPerUser
	if (users > 0) != (perUser > 0) {
		return fmt.Errorf("database.seed_demo_users and database.seed_demo_per_user must both be set (got %d and %d)", users, perUser)
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.RetryMaxInterval < c.Ingest.RetryInitialInterval {
		return fmt.Errorf("ingest.retry_max_interval (%v) must not be less than ingest.retry_initial_interval (%v)",
			c.Ingest.RetryMaxInterval, c.Ingest.RetryInitialInterval)
	}
	return nil
}

// SeedDemoEnabled reports whether generated demo navigations are requested.
func (c *DatabaseConfig) SeedDemoEnabled() bool {
	return c.SeedDemoUsers > 0 && c.SeedDemoPerUser > 0
}

// Address returns the host:port the operations server listens on.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
