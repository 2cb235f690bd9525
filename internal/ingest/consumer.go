// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/smartbuy/internal/config"
	"github.com/tomtom215/smartbuy/internal/database"
	"github.com/tomtom215/smartbuy/internal/logging"
	"github.com/tomtom215/smartbuy/internal/metrics"
)

// PoisonSuffix is appended to the event topic to name the poison topic.
const PoisonSuffix = ".poison"

// NavigationStore persists navigations.
// Satisfied by *database.DB.
type NavigationStore interface {
	InsertNavigation(ctx context.Context, nav database.Navigation) (int64, error)
}

// Consumer runs the Watermill router that stores navigation events.
//
// A Watermill router cannot be restarted after it closes, so every Run
// builds a fresh router over the same pub/sub.
type Consumer struct {
	cfg      config.IngestConfig
	pub      message.Publisher
	sub      message.Subscriber
	store    NavigationStore
	logger   zerolog.Logger
	wmLogger watermill.LoggerAdapter

	started   chan struct{}
	startOnce sync.Once
}

// NewConsumer creates a consumer reading cfg.Topic from sub. Messages that
// exhaust their retries are published to the poison topic on pub.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewConsumer(cfg *config.IngestConfig, pub message.Publisher, sub message.Subscriber, store NavigationStore, logger zerolog.Logger) *Consumer {
	logger = logger.With().Str("component", "ingest_consumer").Logger()
	return &Consumer{
		cfg:      *cfg,
		pub:      pub,
		sub:      sub,
		store:    store,
		logger:   logger,
		wmLogger: logging.NewWatermillAdapter(logger),
		started:  make(chan struct{}),
	}
}

// Started is closed once the first router is subscribed and running.
func (c *Consumer) Started() <-chan struct{} {
	return c.started
}

// PoisonTopic returns the topic that receives messages which failed all retries.
func (c *Consumer) PoisonTopic() string {
	return c.cfg.Topic + PoisonSuffix
}

// Run builds a router and blocks until ctx is canceled or the router stops.
func (c *Consumer) Run(ctx context.Context) error {
	router, err := c.newRouter()
	if err != nil {
		return err
	}

	go func() {
		select {
		case <-router.Running():
			c.startOnce.Do(func() { close(c.started) })
			c.logger.Info().Str("topic", c.cfg.Topic).Msg("Navigation consumer running")
		case <-ctx.Done():
		}
	}()

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("navigation router: %w", err)
	}
	return nil
}

func (c *Consumer) newRouter() (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: c.cfg.CloseTimeout,
	}, c.wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	poisonQueue, err := middleware.PoisonQueue(c.pub, c.PoisonTopic())
	if err != nil {
		return nil, fmt.Errorf("create poison queue middleware: %w", err)
	}

	retry := middleware.Retry{
		MaxRetries:      c.cfg.RetryCount,
		InitialInterval: c.cfg.RetryInitialInterval,
		MaxInterval:     c.cfg.RetryMaxInterval,
		Multiplier:      2.0,
		Logger:          c.wmLogger,
	}

	// Outermost first: retries run inside the poison queue, panics become
	// errors before the retry sees them.
	router.AddMiddleware(poisonQueue, retry.Middleware, middleware.Recoverer)

	router.AddConsumerHandler("navigation-store", c.cfg.Topic, c.sub, c.handleNavigation)
	router.AddConsumerHandler("navigation-poison", c.PoisonTopic(), c.sub, c.handlePoisoned)

	return router, nil
}

// handleNavigation stores one event. Returning nil acknowledges the message.
func (c *Consumer) handleNavigation(msg *message.Message) error {
	logger := c.logger.With().
		Str("event_id", msg.UUID).
		Str("request_id", msg.Metadata.Get(MetadataRequestID)).
		Logger()

	event, err := decodeEvent(msg.Payload)
	if err != nil {
		metrics.NavigationsIngested.WithLabelValues("rejected").Inc()
		logger.Warn().Err(err).Msg("Dropping undecodable navigation event")
		return nil
	}

	id, err := c.store.InsertNavigation(msg.Context(), event.Navigation())
	switch {
	case err == nil:
		metrics.NavigationsIngested.WithLabelValues("stored").Inc()
		logger.Debug().Int64("navigation_id", id).Msg("Navigation stored")
		return nil
	case errors.Is(err, database.ErrUnknownProduct):
		metrics.NavigationsIngested.WithLabelValues("rejected").Inc()
		logger.Warn().Err(err).
			Int64("destination_product_id", event.DestinationProductID).
			Msg("Rejecting navigation to unknown product")
		return nil
	default:
		metrics.NavigationsIngested.WithLabelValues("failed").Inc()
		return fmt.Errorf("store navigation %s: %w", event.EventID, err)
	}
}

func (c *Consumer) handlePoisoned(msg *message.Message) error {
	metrics.NavigationsIngested.WithLabelValues("poisoned").Inc()
	c.logger.Error().
		Str("event_id", msg.UUID).
		Str("reason", msg.Metadata.Get(middleware.ReasonForPoisonedKey)).
		Msg("Navigation event dropped after retries")
	return nil
}
