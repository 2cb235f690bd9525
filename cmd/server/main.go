// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/smartbuy/internal/api"
	"github.com/tomtom215/smartbuy/internal/config"
	"github.com/tomtom215/smartbuy/internal/database"
	"github.com/tomtom215/smartbuy/internal/logging"
	"github.com/tomtom215/smartbuy/internal/supervisor"
	"github.com/tomtom215/smartbuy/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("SmartBuy exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()

	logger.Info().
		Str("db_path", cfg.Database.Path).
		Str("addr", cfg.Server.Address()).
		Msg("Starting SmartBuy")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seedDatabase(ctx, db, &cfg.Database); err != nil {
		return err
	}

	tree, err := supervisor.NewSupervisorTree(
		logging.NewSlogLogger(logging.WithComponent("supervisor")),
		supervisor.TreeConfigFrom(&cfg.Supervisor),
	)
	if err != nil {
		return err
	}

	ranking, err := initRecommend(cfg, db, logger, tree)
	if err != nil {
		return err
	}

	ingestion := initIngest(&cfg.Ingest, db, logger, tree)
	defer func() {
		if err := ingestion.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing ingest pub/sub")
		}
	}()

	handler := api.NewHandler(ranking.Engine, ingestion.Publisher, db, logger).
		WithBreaker(ranking.Breaker)
	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           api.NewRouter(handler, api.RouterConfigFrom(&cfg.Server)),
		ReadHeaderTimeout: cfg.Server.Timeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Supervisor.ShutdownTimeout, logger))

	logger.Info().Str("addr", server.Addr).Msg("Serving operations API")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		logging.Warn().Int("count", len(report)).Msg("Services did not stop within the shutdown timeout")
	}

	logger.Info().Msg("SmartBuy stopped")
	return nil
}
