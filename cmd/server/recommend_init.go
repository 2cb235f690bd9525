// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/smartbuy/internal/config"
	"github.com/tomtom215/smartbuy/internal/database"
	"github.com/tomtom215/smartbuy/internal/recommend"
	"github.com/tomtom215/smartbuy/internal/supervisor"
	"github.com/tomtom215/smartbuy/internal/supervisor/services"
)

// RecommendComponents holds the ranking engine and the breaker guarding
// its store reads.
type RecommendComponents struct {
	Engine  *recommend.Engine
	Breaker *database.BreakerProvider
}

// initRecommend builds the ranking engine over the breaker-wrapped store
// and registers the retrain service.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, db *database.DB, logger zerolog.Logger, tree *supervisor.SupervisorTree) (*RecommendComponents, error) {
	provider := database.NewBreakerProvider(db, database.DefaultBreakerConfig(), logger)

	engine, err := recommend.NewEngine(buildEngineConfig(&cfg.Recommend), provider, logger)
	if err != nil {
		return nil, fmt.Errorf("create ranking engine: %w", err)
	}

	// Log the validated configuration the engine actually runs with.
	engineCfg := engine.GetConfig()
	logger.Info().
		Int("embedding_dim", engineCfg.Model.EmbeddingDim).
		Int("epochs", engineCfg.Model.Epochs).
		Dur("refresh_interval", engineCfg.Training.RefreshInterval).
		Bool("train_on_startup", cfg.Recommend.TrainOnStartup).
		Str("breaker_state", provider.State()).
		Msg("Ranking engine initialized")

	tree.AddModelService(services.NewRetrainService(engine, services.RetrainServiceConfig{
		TrainOnStartup: cfg.Recommend.TrainOnStartup,
		CheckInterval:  cfg.Recommend.CheckInterval,
	}, logger))

	return &RecommendComponents{Engine: engine, Breaker: provider}, nil
}

// buildEngineConfig maps the flat recommend config section onto the
// engine configuration.
func buildEngineConfig(cfg *config.RecommendConfig) *recommend.Config {
	return &recommend.Config{
		Model: recommend.ModelConfig{
			EmbeddingDim: cfg.EmbeddingDim,
			Hidden1:      cfg.Hidden1,
			Hidden2:      cfg.Hidden2,
			Epochs:       cfg.Epochs,
			BatchSize:    cfg.BatchSize,
			LearningRate: cfg.LearningRate,
		},
		Lexical: recommend.LexicalConfig{
			MinDocumentFrequency: cfg.MinDocumentFrequency,
			MaxDocumentRatio:     cfg.MaxDocumentRatio,
			ScoreThreshold:       cfg.ScoreThreshold,
		},
		Training: recommend.TrainingConfig{
			RefreshInterval: cfg.RefreshInterval,
			LoadTimeout:     cfg.LoadTimeout,
		},
		Policy: recommend.PolicyConfig{
			MinNavigationsForPersonal: cfg.MinNavigationsForPersonal,
		},
		Seed: cfg.Seed,
	}
}
