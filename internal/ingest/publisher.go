// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/smartbuy/internal/config"
	"github.com/tomtom215/smartbuy/internal/logging"
	"github.com/tomtom215/smartbuy/internal/metrics"
)

// ErrConsumerNotReady is returned when an event is published before the
// consumer has subscribed and the caller's context ends first.
var ErrConsumerNotReady = errors.New("navigation consumer not ready")

// Metadata keys set on published messages.
const (
	MetadataRequestID = "request_id"
	MetadataEventType = "event_type"

	eventTypeNavigation = "navigation.recorded"
)

// NewPubSub creates the in-process pub/sub that carries navigation events.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewPubSub(cfg *config.IngestConfig, logger zerolog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		},
		logging.NewWatermillAdapter(logger),
	)
}

// Publisher sends navigation events to the ingest topic.
type Publisher struct {
	pub    message.Publisher
	topic  string
	ready  <-chan struct{}
	logger zerolog.Logger
	now    func() time.Time
}

// NewPublisher creates a publisher on topic. When ready is non-nil,
// RecordNavigation waits for it to close before publishing: the gochannel
// pub/sub drops messages sent while nothing is subscribed.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewPublisher(pub message.Publisher, topic string, ready <-chan struct{}, logger zerolog.Logger) *Publisher {
	return &Publisher{
		pub:    pub,
		topic:  topic,
		ready:  ready,
		logger: logger.With().Str("component", "ingest_publisher").Logger(),
		now:    time.Now,
	}
}

// RecordNavigation validates and publishes one navigation event. It returns
// the event ID. Persistence happens asynchronously in the Consumer.
func (p *Publisher) RecordNavigation(ctx context.Context, event NavigationEvent) (string, error) {
	event.normalize(p.now())
	if err := event.Validate(); err != nil {
		metrics.NavigationsIngested.WithLabelValues("rejected").Inc()
		return "", err
	}

	if p.ready != nil {
		select {
		case <-p.ready:
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %w", ErrConsumerNotReady, ctx.Err())
		}
	}

	payload, err := encodeEvent(&event)
	if err != nil {
		return "", err
	}

	msg := message.NewMessage(event.EventID, payload)
	msg.Metadata.Set(MetadataEventType, eventTypeNavigation)
	if requestID := logging.RequestIDFromContext(ctx); requestID != "" {
		msg.Metadata.Set(MetadataRequestID, requestID)
	}

	if err := p.pub.Publish(p.topic, msg); err != nil {
		return "", fmt.Errorf("publish navigation event: %w", err)
	}

	metrics.NavigationsIngested.WithLabelValues("published").Inc()
	p.logger.Debug().
		Str("event_id", event.EventID).
		Int64("destination_product_id", event.DestinationProductID).
		Msg("Navigation published")

	return event.EventID, nil
}
