// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

/*
Package services provides suture.Service wrappers for SmartBuy components.

Each wrapper translates a component lifecycle into suture's context-aware
Serve pattern and names itself through fmt.Stringer for supervisor logs:

  - HTTPServerService: ListenAndServe/Shutdown of the operations server
  - IngestService: the Watermill navigation consumer
  - RetrainService: optional training on startup, then periodic
    Train(ctx, false) calls

Components are accepted through small interfaces so tests can substitute
fakes and the wrappers never import the component packages.
*/
package services
