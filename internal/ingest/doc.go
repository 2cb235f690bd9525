// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

/*
Package ingest records product navigations through a Watermill pipeline.

Callers publish a NavigationEvent with Publisher.RecordNavigation. The event
is encoded as JSON and sent on the configured topic of an in-process
gochannel pub/sub. A Consumer runs a Watermill router whose handler writes
each event to the navigation store.

# Message Flow

	API handler
	    |
	    v
	Publisher.RecordNavigation --> gochannel topic "navigation.recorded"
	                                      |
	                                      v
	                    Consumer router (PoisonQueue -> Retry -> Recoverer)
	                                      |
	                                      v
	                           NavigationStore.InsertNavigation

# Failure Handling

  - An event naming an unknown destination product, or a payload that does
    not decode, is rejected: logged, acknowledged, never retried.
  - Any other store error is retried with exponential backoff. Once the
    retries are exhausted the message moves to the poison topic
    (the event topic with a ".poison" suffix), where it is logged and
    dropped.
  - An unknown source product is not an error: the store drops the link
    and keeps the navigation.

# Metrics

Every outcome increments ingest_navigations_total with one of the results
published, stored, rejected, failed or poisoned.
*/
package ingest
