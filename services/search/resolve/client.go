// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolve

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// resolverPath is the resolver endpoint path on the portal API.
	resolverPath = "/api/v1/resolver"

	// defaultNMax bounds the number of candidates requested per lookup.
	defaultNMax = 10
)

// resolverRequest is the wire payload sent to the resolver endpoint.
type resolverRequest struct {
	Resolver string `json:"resolver"`
	Name     string `json:"name"`
	Reverse  bool   `json:"reverse,omitempty"`
	NMax     int    `json:"nmax,omitempty"`
}

// Client issues requests to a remote resolver endpoint shared by all
// resolver kinds.
//
// Description:
//
//	The portal API multiplexes every name-resolution service behind one
//	POST endpoint; the "resolver" field selects the service. Each Kind-
//	specific Resolver wraps this client and decodes its own record shape.
//
// Thread Safety: Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	nmax       int
	logger     *slog.Logger
}

// NewClient creates a resolver endpoint client.
//
// Inputs:
//
//	baseURL - Portal API base URL, e.g. "https://api.fink-portal.org".
//	          A trailing slash is tolerated.
//	nmax    - Maximum candidates per lookup. Zero uses the default (10).
//	logger  - Logger for request diagnostics. May be nil.
func NewClient(baseURL string, nmax int, logger *slog.Logger) *Client {
	if nmax <= 0 {
		nmax = defaultNMax
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		// The per-call timeout comes from the request context; the
		// transport-level timeout is a generous backstop.
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		nmax:       nmax,
		logger:     logger,
	}
}

// call posts one lookup to the resolver endpoint and returns the raw JSON
// body.
//
// Description:
//
//	The per-call timeout is applied via context deadline. A deadline
//	expiry is surfaced as ErrTimeout so the cascade can distinguish a
//	transient timeout (never cached) from an empty answer (cached).
func (c *Client) call(ctx context.Context, kind Kind, name string, reverse bool, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload := resolverRequest{
		Resolver: string(kind),
		Name:     name,
		Reverse:  reverse,
		NMax:     c.nmax,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("resolve: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+resolverPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("resolve: creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Sending resolver request",
		slog.String("kind", string(kind)),
		slog.String("name", name),
		slog.Bool("reverse", reverse),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %s after %s", ErrTimeout, kind, timeout)
		}
		return nil, fmt.Errorf("resolve: HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("resolve: reading response body (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("resolve: %s resolver returned status %d: %s", kind, resp.StatusCode, truncate(raw, 256))
	}

	c.logger.Debug("Resolver response received",
		slog.String("kind", string(kind)),
		slog.Int("body_length", len(raw)),
	)
	return raw, nil
}

// truncate trims a response body for inclusion in an error message.
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
