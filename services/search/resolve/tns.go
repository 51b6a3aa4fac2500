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

// tnsRecord is the TNS wire record shape.
type tnsRecord struct {
	FullName     string   `json:"d:fullname"`
	InternalName string   `json:"d:internalname"`
	RA           *float64 `json:"d:ra"`
	Dec          *float64 `json:"d:declination"`
}

// TNSResolver resolves transient names against the Transient Name Server.
//
// Description:
//
//	Forward mode resolves a TNS designation (possibly partial, e.g.
//	"SN 2024") to full names with positions. Reverse mode maps an internal
//	survey name (e.g. a ZTF identifier) back to its TNS designation.
type TNSResolver struct {
	client *Client
}

// NewTNSResolver wraps the shared endpoint client for TNS lookups.
func NewTNSResolver(client *Client) *TNSResolver {
	return &TNSResolver{client: client}
}

// Kind implements Resolver.
func (r *TNSResolver) Kind() Kind { return KindTNS }

// Resolve implements Resolver.
func (r *TNSResolver) Resolve(ctx context.Context, name string, reverse bool, timeout time.Duration) ([]Record, error) {
	raw, err := r.client.call(ctx, KindTNS, name, reverse, timeout)
	if err != nil {
		return nil, err
	}
	var wire []tnsRecord
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("resolve: decoding tns payload: %w", err)
	}
	out := make([]Record, 0, len(wire))
	for _, w := range wire {
		out = append(out, Record{
			Name:     w.InternalName,
			FullName: w.FullName,
			RA:       w.RA,
			Dec:      w.Dec,
		})
	}
	return out, nil
}
