// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package services

import "context"

// NavigationConsumer blocks processing navigation events until ctx ends.
// Satisfied by *ingest.Consumer.
type NavigationConsumer interface {
	Run(ctx context.Context) error
}

// IngestService runs the navigation consumer under supervision.
type IngestService struct {
	consumer NavigationConsumer
	name     string
}

// NewIngestService creates a new ingest consumer service wrapper.
func NewIngestService(consumer NavigationConsumer) *IngestService {
	return &IngestService{
		consumer: consumer,
		name:     "ingest-consumer",
	}
}

// Serve implements suture.Service. A router that stops while ctx is still
// live returns its error so the supervisor restarts it.
func (s *IngestService) Serve(ctx context.Context) error {
	err := s.consumer.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// String implements fmt.Stringer for suture logs.
func (s *IngestService) String() string {
	return s.name
}
