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

// ssoRecord is the SSODNET quaero wire record shape.
type ssoRecord struct {
	Name   string `json:"i:name"`
	Number string `json:"i:number"`
	Source string `json:"i:source"`
}

// SSOResolver resolves solar-system object designations via SSODNET.
//
// Moving objects have no fixed sky position, so records carry names only;
// the cascade deliberately leaves ra/dec unset on an SSO hit.
type SSOResolver struct {
	client *Client
}

// NewSSOResolver wraps the shared endpoint client for SSODNET lookups.
func NewSSOResolver(client *Client) *SSOResolver {
	return &SSOResolver{client: client}
}

// Kind implements Resolver.
func (r *SSOResolver) Kind() Kind { return KindSSO }

// Resolve implements Resolver.
func (r *SSOResolver) Resolve(ctx context.Context, name string, reverse bool, timeout time.Duration) ([]Record, error) {
	raw, err := r.client.call(ctx, KindSSO, name, reverse, timeout)
	if err != nil {
		return nil, err
	}
	var wire []ssoRecord
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("resolve: decoding ssodnet payload: %w", err)
	}
	out := make([]Record, 0, len(wire))
	for _, w := range wire {
		out = append(out, Record{Name: w.Name})
	}
	return out, nil
}
