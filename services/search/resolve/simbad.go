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
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// simbadRecord is the CDS cross-match wire record shape.
type simbadRecord struct {
	Name   string   `json:"oname"`
	OType  string   `json:"otype"`
	RADeg  *float64 `json:"jradeg"`
	DecDeg *float64 `json:"jdedeg"`
}

// SimbadResolver resolves general astronomical object names via SIMBAD.
//
// Single-result contract: the service returns at most one usable match, so
// the cascade never populates completions from a SIMBAD answer.
type SimbadResolver struct {
	client *Client
}

// NewSimbadResolver wraps the shared endpoint client for SIMBAD lookups.
func NewSimbadResolver(client *Client) *SimbadResolver {
	return &SimbadResolver{client: client}
}

// Kind implements Resolver.
func (r *SimbadResolver) Kind() Kind { return KindSimbad }

// Resolve implements Resolver.
func (r *SimbadResolver) Resolve(ctx context.Context, name string, reverse bool, timeout time.Duration) ([]Record, error) {
	raw, err := r.client.call(ctx, KindSimbad, name, reverse, timeout)
	if err != nil {
		return nil, err
	}
	var wire []simbadRecord
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("resolve: decoding simbad payload: %w", err)
	}
	out := make([]Record, 0, len(wire))
	for _, w := range wire {
		out = append(out, Record{
			Name: w.Name,
			RA:   w.RADeg,
			Dec:  w.DecDeg,
		})
	}
	return out, nil
}
