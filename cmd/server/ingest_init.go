// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package main

import (
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/smartbuy/internal/config"
	"github.com/tomtom215/smartbuy/internal/database"
	"github.com/tomtom215/smartbuy/internal/ingest"
	"github.com/tomtom215/smartbuy/internal/supervisor"
	"github.com/tomtom215/smartbuy/internal/supervisor/services"
)

// IngestComponents holds the navigation ingestion pipeline.
type IngestComponents struct {
	PubSub    *gochannel.GoChannel
	Consumer  *ingest.Consumer
	Publisher *ingest.Publisher
}

// Close releases the pub/sub after the consumer has stopped.
func (c *IngestComponents) Close() error {
	return c.PubSub.Close()
}

// initIngest wires the pub/sub, the consumer writing to db and the
// publisher used by the API, and registers the consumer service.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initIngest(cfg *config.IngestConfig, db *database.DB, logger zerolog.Logger, tree *supervisor.SupervisorTree) *IngestComponents {
	pubSub := ingest.NewPubSub(cfg, logger)
	consumer := ingest.NewConsumer(cfg, pubSub, pubSub, db, logger)
	publisher := ingest.NewPublisher(pubSub, cfg.Topic, consumer.Started(), logger)

	tree.AddDataService(services.NewIngestService(consumer))

	logger.Info().
		Str("topic", cfg.Topic).
		Str("poison_topic", consumer.PoisonTopic()).
		Int("retries", cfg.RetryCount).
		Msg("Navigation ingest configured")

	return &IngestComponents{
		PubSub:    pubSub,
		Consumer:  consumer,
		Publisher: publisher,
	}
}
