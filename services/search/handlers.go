// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package search

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AleutianSky/services/search/parser"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var parseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sky",
	Subsystem: "search",
	Name:      "parse_total",
	Help:      "Parse requests by final action",
}, []string{"action"})

// =============================================================================
// Handlers
// =============================================================================

// batchConcurrency bounds parallel parses within one batch request. Each
// parse may fan into resolver calls, so this also caps external load per
// request.
const batchConcurrency = 4

// ParseRequest is the body of POST /v1/search/parse.
type ParseRequest struct {
	// Query is the free-text search-bar input.
	Query string `json:"query" binding:"required"`

	// TimeoutMs bounds each resolver call made during this parse.
	// Zero uses the service default.
	TimeoutMs int `json:"timeout_ms"`
}

// BatchParseRequest is the body of POST /v1/search/parse/batch.
type BatchParseRequest struct {
	Queries   []string `json:"queries" binding:"required"`
	TimeoutMs int      `json:"timeout_ms"`
}

// Handlers holds HTTP handlers for the search service.
type Handlers struct {
	svc        *Service
	batchLimit int
	logger     *slog.Logger
}

// NewHandlers creates the handlers instance.
//
// Inputs:
//
//	svc        - The search service. Must not be nil.
//	batchLimit - Maximum queries per batch request. Zero uses 32.
//	logger     - Logger instance. May be nil.
func NewHandlers(svc *Service, batchLimit int, logger *slog.Logger) *Handlers {
	if batchLimit <= 0 {
		batchLimit = 32
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{svc: svc, batchLimit: batchLimit, logger: logger}
}

// HandleParse parses one query into a normalized intent.
//
// Description:
//
//	POST /v1/search/parse. Malformed query strings are not errors — the
//	parser fails closed and the intent comes back with action "unknown".
//	Only a malformed request body yields a 400.
func (h *Handlers) HandleParse(c *gin.Context) {
	rid := uuid.NewString()
	c.Header("X-Request-ID", rid)

	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "request_id": rid})
		return
	}

	in := h.svc.Query(c.Request.Context(), req.Query, time.Duration(req.TimeoutMs)*time.Millisecond)
	parseTotal.WithLabelValues(string(in.Action)).Inc()

	h.logger.Info("parse request",
		slog.String("request_id", rid),
		slog.String("type", string(in.Type)),
		slog.String("action", string(in.Action)),
	)
	c.JSON(http.StatusOK, in)
}

// HandleParseBatch parses several queries in one round trip.
//
// Description:
//
//	POST /v1/search/parse/batch. The UI debounce layer coalesces rapid
//	keystrokes into one batch. Parses run with bounded concurrency;
//	results come back in request order. Oversized batches yield a 400.
func (h *Handlers) HandleParseBatch(c *gin.Context) {
	rid := uuid.NewString()
	c.Header("X-Request-ID", rid)

	var req BatchParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "request_id": rid})
		return
	}
	if len(req.Queries) > h.batchLimit {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "too many queries in batch",
			"limit":      h.batchLimit,
			"request_id": rid,
		})
		return
	}

	timeout := time.Duration(req.TimeoutMs) * time.Millisecond
	intents := make([]*parser.Intent, len(req.Queries))

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(batchConcurrency)
	for i, q := range req.Queries {
		g.Go(func() error {
			intents[i] = h.svc.Query(ctx, q, timeout)
			return nil
		})
	}
	// Workers never return errors; Wait only joins them.
	_ = g.Wait()

	for _, in := range intents {
		parseTotal.WithLabelValues(string(in.Action)).Inc()
	}
	c.JSON(http.StatusOK, gin.H{"intents": intents})
}

// HandleHealth reports liveness.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleReady reports readiness. The parser is pure and always ready; the
// resolver cascade degrades gracefully when the remote endpoint is down, so
// readiness does not gate on it.
func (h *Handlers) HandleReady(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
