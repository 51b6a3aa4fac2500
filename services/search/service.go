// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package search exposes the query parser and resolver cascade as an HTTP
// service: the "magic search bar" back end of the alert-browsing portal.
package search

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/AleutianSky/services/search/parser"
	"github.com/AleutianAI/AleutianSky/services/search/resolve"
)

var serviceTracer = otel.Tracer("aleutian.search")

// Service runs the full parse pipeline: pure parse, resolver enrichment,
// final classification.
//
// Thread Safety: Safe for concurrent use; the resolver memo cache is the
// only shared mutable state and is internally synchronized.
type Service struct {
	cascade *resolve.Cascade
	timeout time.Duration
	logger  *slog.Logger
}

// NewService creates the search service.
//
// Inputs:
//
//	cascade - Resolver cascade. Nil yields a parse-only service (no
//	          external lookups), which is the correct degradation when no
//	          resolver endpoint is configured.
//	timeout - Default per-resolver-call budget when a request supplies none.
//	logger  - Logger instance. May be nil.
func NewService(cascade *resolve.Cascade, timeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cascade: cascade, timeout: timeout, logger: logger}
}

// Query parses one free-text query into a normalized intent.
//
// Description:
//
//	Every input yields a well-formed intent; there is no error return.
//	timeout bounds each resolver call made during this parse; zero uses
//	the service default. The classifier runs again after enrichment so a
//	resolved name carrying coordinates dispatches as a position search.
func (s *Service) Query(ctx context.Context, query string, timeout time.Duration) *parser.Intent {
	ctx, span := serviceTracer.Start(ctx, "search.query")
	defer span.End()

	if timeout <= 0 {
		timeout = s.timeout
	}

	start := time.Now()
	in := parser.Parse(query)
	if s.cascade != nil {
		s.cascade.Enrich(ctx, in, timeout)
		parser.Classify(in)
	}

	span.SetAttributes(
		attribute.String("intent.type", string(in.Type)),
		attribute.String("intent.action", string(in.Action)),
	)
	s.logger.Debug("query parsed",
		slog.String("type", string(in.Type)),
		slog.String("action", string(in.Action)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return in
}
