// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/smartbuy/internal/recommend/algorithms"
)

// Config contains all configuration for the ranking engine.
type Config struct {
	// Model contains parameters for the two-tower embedding model.
	Model ModelConfig `json:"model"`

	// Lexical contains parameters for the TF-IDF search index.
	Lexical LexicalConfig `json:"lexical"`

	// Training contains training schedule parameters.
	Training TrainingConfig `json:"training"`

	// Policy contains request-time source selection parameters.
	Policy PolicyConfig `json:"policy"`

	// Seed is the random seed for deterministic model initialization.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// ModelConfig contains parameters for the embedding model.
type ModelConfig struct {
	// EmbeddingDim is the width of the user and item embedding tables.
	// Default: 50.
	EmbeddingDim int `json:"embedding_dim"`

	// Hidden1 and Hidden2 are the widths of the two hidden projections.
	// Defaults: 128 and 64.
	Hidden1 int `json:"hidden1"`
	Hidden2 int `json:"hidden2"`

	// Epochs is the number of passes over the interaction pairs.
	// Default: 10.
	Epochs int `json:"epochs"`

	// BatchSize is the number of pairs per optimizer step.
	// Default: 64.
	BatchSize int `json:"batch_size"`

	// LearningRate is the Adam step size.
	// Default: 0.001.
	LearningRate float64 `json:"learning_rate"`
}

// LexicalConfig contains parameters for the TF-IDF index.
type LexicalConfig struct {
	// MinDocumentFrequency drops terms seen in fewer documents.
	// Default: 2.
	MinDocumentFrequency int `json:"min_document_frequency"`

	// MaxDocumentRatio drops terms seen in more than this share of documents.
	// Default: 0.95.
	MaxDocumentRatio float64 `json:"max_document_ratio"`

	// ScoreThreshold is the score a product must strictly exceed to be returned.
	// Default: 0.1.
	ScoreThreshold float64 `json:"score_threshold"`
}

// TrainingConfig contains training schedule parameters.
type TrainingConfig struct {
	// RefreshInterval is the minimum age of the published snapshot before
	// a non-forced Train call retrains.
	// Default: 24h.
	RefreshInterval time.Duration `json:"refresh_interval"`

	// LoadTimeout bounds each store read made while training.
	// Default: 30s.
	LoadTimeout time.Duration `json:"load_timeout"`
}

// PolicyConfig contains request-time source selection parameters.
type PolicyConfig struct {
	// MinNavigationsForPersonal is the number of prior navigation events an
	// authenticated user needs before personalized ranking is used.
	// Default: 5.
	MinNavigationsForPersonal int `json:"min_navigations_for_personal"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			EmbeddingDim: 50,
			Hidden1:      128,
			Hidden2:      64,
			Epochs:       10,
			BatchSize:    64,
			LearningRate: 0.001,
		},
		Lexical: LexicalConfig{
			MinDocumentFrequency: 2,
			MaxDocumentRatio:     0.95,
			ScoreThreshold:       0.1,
		},
		Training: TrainingConfig{
			RefreshInterval: 24 * time.Hour,
			LoadTimeout:     30 * time.Second,
		},
		Policy: PolicyConfig{
			MinNavigationsForPersonal: 5,
		},
		Seed: 42, // Default seed for determinism
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Model.EmbeddingDim < 1 {
		return fmt.Errorf("model.embedding_dim must be positive, got %d", c.Model.EmbeddingDim)
	}
	if c.Model.Hidden1 < 1 || c.Model.Hidden2 < 1 {
		return fmt.Errorf("model hidden widths must be positive, got %d/%d", c.Model.Hidden1, c.Model.Hidden2)
	}
	if c.Model.Epochs < 1 {
		return fmt.Errorf("model.epochs must be positive, got %d", c.Model.Epochs)
	}
	if c.Model.BatchSize < 1 {
		return fmt.Errorf("model.batch_size must be positive, got %d", c.Model.BatchSize)
	}
	if c.Model.LearningRate <= 0 {
		return fmt.Errorf("model.learning_rate must be positive, got %f", c.Model.LearningRate)
	}

	if c.Lexical.MinDocumentFrequency < 1 {
		return fmt.Errorf("lexical.min_document_frequency must be positive, got %d", c.Lexical.MinDocumentFrequency)
	}
	if c.Lexical.MaxDocumentRatio <= 0 || c.Lexical.MaxDocumentRatio > 1 {
		return fmt.Errorf("lexical.max_document_ratio must be in (0, 1], got %f", c.Lexical.MaxDocumentRatio)
	}
	if c.Lexical.ScoreThreshold < 0 || c.Lexical.ScoreThreshold >= 1 {
		return fmt.Errorf("lexical.score_threshold must be in [0, 1), got %f", c.Lexical.ScoreThreshold)
	}

	if c.Training.RefreshInterval < 0 {
		return fmt.Errorf("training.refresh_interval must be non-negative, got %v", c.Training.RefreshInterval)
	}
	if c.Training.LoadTimeout <= 0 {
		return fmt.Errorf("training.load_timeout must be positive, got %v", c.Training.LoadTimeout)
	}

	if c.Policy.MinNavigationsForPersonal < 0 {
		return fmt.Errorf("policy.min_navigations_for_personal must be non-negative, got %d", c.Policy.MinNavigationsForPersonal)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types
	clone := *c
	return &clone
}

// twoTowerConfig converts the model section into algorithm configuration.
func (c *Config) twoTowerConfig() algorithms.TwoTowerConfig {
	adam := algorithms.DefaultAdamConfig()
	adam.LearningRate = c.Model.LearningRate
	return algorithms.TwoTowerConfig{
		EmbeddingDim: c.Model.EmbeddingDim,
		Hidden1:      c.Model.Hidden1,
		Hidden2:      c.Model.Hidden2,
		Epochs:       c.Model.Epochs,
		BatchSize:    c.Model.BatchSize,
		Adam:         adam,
		Seed:         c.Seed,
	}
}

// lexicalConfig converts the lexical section into algorithm configuration.
func (c *Config) lexicalConfig() algorithms.LexicalConfig {
	return algorithms.LexicalConfig{
		MinDF:      c.Lexical.MinDocumentFrequency,
		MaxDFRatio: c.Lexical.MaxDocumentRatio,
		Threshold:  c.Lexical.ScoreThreshold,
	}
}
