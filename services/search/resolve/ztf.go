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

// ztfRecord is the alert-database wire record shape for identifier lookups.
type ztfRecord struct {
	ObjectID string   `json:"i:objectId"`
	RA       *float64 `json:"i:ra"`
	Dec      *float64 `json:"i:dec"`
}

// ZTFResolver maps a complete ZTF object identifier to its sky position.
//
// The cascade uses it for one special case only: when the user supplied an
// explicit radius alongside a complete identifier, the identifier search is
// upgraded to a position search around the object.
type ZTFResolver struct {
	client *Client
}

// NewZTFResolver wraps the shared endpoint client for identifier lookups.
func NewZTFResolver(client *Client) *ZTFResolver {
	return &ZTFResolver{client: client}
}

// Kind implements Resolver.
func (r *ZTFResolver) Kind() Kind { return KindZTF }

// Resolve implements Resolver.
func (r *ZTFResolver) Resolve(ctx context.Context, name string, reverse bool, timeout time.Duration) ([]Record, error) {
	raw, err := r.client.call(ctx, KindZTF, name, reverse, timeout)
	if err != nil {
		return nil, err
	}
	var wire []ztfRecord
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("resolve: decoding ztf payload: %w", err)
	}
	out := make([]Record, 0, len(wire))
	for _, w := range wire {
		out = append(out, Record{
			Name: w.ObjectID,
			RA:   w.RA,
			Dec:  w.Dec,
		})
	}
	return out, nil
}
