// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package resolve orchestrates external name-resolution services for the
// search parser: a cascade of resolvers tried in strict precedence order
// with short-circuit on first success, fronted by a bounded memoization
// cache and an optional persisted second tier.
//
// The package never implements lookup logic itself; each Resolver is a thin
// client over a remote resolver endpoint, substitutable with a stub in tests.
//
// Thread Safety:
//
//	All types in this package are safe for concurrent use.
package resolve

import (
	"context"
	"errors"
	"time"
)

// Kind identifies one external name-resolution service.
type Kind string

const (
	// KindTNS is the Transient Name Server resolver.
	KindTNS Kind = "tns"

	// KindSimbad is the CDS SIMBAD resolver for general astronomical objects.
	KindSimbad Kind = "simbad"

	// KindSSO is the SSODNET resolver for solar-system objects.
	KindSSO Kind = "ssodnet"

	// KindZTF resolves ZTF object identifiers to sky positions.
	KindZTF Kind = "ztf"
)

// ErrTimeout is returned when a resolver call exceeded its per-call timeout.
// A timeout is an explicit "no result" sentinel, distinct from an empty
// record list, and is never cached — a transient timeout must not poison
// future lookups.
var ErrTimeout = errors.New("resolve: timeout")

// Record is one normalized candidate returned by a resolver.
//
// Description:
//
//	RA/Dec are pointers because not every service reports a position:
//	solar-system objects have no fixed coordinates. FullName is set by
//	services that distinguish a canonical full designation from an
//	internal or short name (TNS); other services leave it empty.
type Record struct {
	Name     string   `json:"name"`
	FullName string   `json:"fullname,omitempty"`
	RA       *float64 `json:"ra,omitempty"`
	Dec      *float64 `json:"dec,omitempty"`
}

// Resolver is one external name-resolution capability.
//
// Thread Safety: Implementations must be safe for concurrent use.
type Resolver interface {
	// Kind returns the service identity, used for cache keys and metrics.
	Kind() Kind

	// Resolve looks up a name, bounded by the per-call timeout.
	//
	// Outputs:
	//   - []Record: Candidates in service order. Empty slice means the
	//     service answered and found nothing (cacheable).
	//   - error: ErrTimeout on deadline, other non-nil on transport or
	//     payload failure. Errors are "no result" to the cascade and are
	//     never cached.
	Resolve(ctx context.Context, name string, reverse bool, timeout time.Duration) ([]Record, error)
}
