// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/smartbuy/internal/recommend"
)

// ModelTrainer runs a training pass.
// Satisfied by *recommend.Engine.
type ModelTrainer interface {
	Train(ctx context.Context, force bool) (recommend.TrainOutcome, error)
}

// RetrainServiceConfig holds configuration for the retrain service.
type RetrainServiceConfig struct {
	// TrainOnStartup runs a pass as soon as the service starts.
	TrainOnStartup bool

	// CheckInterval is how often the freshness check runs. The engine's
	// refresh interval decides whether a check actually retrains.
	CheckInterval time.Duration
}

// RetrainService keeps the published ranking snapshot fresh.
type RetrainService struct {
	trainer ModelTrainer
	config  RetrainServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewRetrainService creates a new retrain service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRetrainService(trainer ModelTrainer, cfg RetrainServiceConfig, logger zerolog.Logger) *RetrainService {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Hour
	}
	return &RetrainService{
		trainer: trainer,
		config:  cfg,
		logger:  logger.With().Str("service", "retrain").Logger(),
		name:    "retrain-service",
	}
}

// Serve implements suture.Service. Training failures are logged and
// retried on the next tick; they never stop the service.
func (s *RetrainService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("check_interval", s.config.CheckInterval).
		Msg("Retrain service starting")

	if s.config.TrainOnStartup {
		s.train(ctx)
	}

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Retrain service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.train(ctx)
		}
	}
}

func (s *RetrainService) train(ctx context.Context) {
	start := time.Now()
	outcome, err := s.trainer.Train(ctx, false)
	if err != nil {
		s.logger.Warn().Err(err).Str("outcome", string(outcome)).Msg("Training pass failed")
		return
	}

	event := s.logger.Debug()
	if outcome == recommend.TrainOutcomeTrained {
		event = s.logger.Info()
	}
	event.Str("outcome", string(outcome)).Dur("duration", time.Since(start)).Msg("Training check complete")
}

// String implements fmt.Stringer for suture logs.
func (s *RetrainService) String() string {
	return s.name
}
