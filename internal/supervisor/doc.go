// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

/*
Package supervisor provides process supervision for SmartBuy using suture v4.

All long-running services run under one hierarchical tree with automatic
restart, failure isolation and graceful shutdown:

	RootSupervisor ("smartbuy")
	├── DataSupervisor ("data-layer")
	│   └── IngestService (navigation consumer)
	├── ModelSupervisor ("model-layer")
	│   └── RetrainService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer counts failures independently. A service that keeps failing
puts only its own layer into backoff.

# Usage

	tree, err := supervisor.NewSupervisorTree(
	    logging.NewSlogLogger(logger),
	    supervisor.TreeConfigFrom(&cfg.Supervisor),
	)
	if err != nil {
	    return err
	}

	tree.AddDataService(services.NewIngestService(consumer))
	tree.AddModelService(services.NewRetrainService(engine, retrainCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, timeout, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)

Supervisor events (service failures, restarts, backoff) are logged through
sutureslog, which takes an *slog.Logger. logging.NewSlogLogger routes those
events into the zerolog output used by the rest of the service.

Service wrappers live in the services subpackage.
*/
package supervisor
