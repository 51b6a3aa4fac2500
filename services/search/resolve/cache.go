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
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var memoLookupTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sky",
	Subsystem: "resolver_cache",
	Name:      "lookup_total",
	Help:      "Memo cache lookups by tier outcome: memo_hit, store_hit, miss",
}, []string{"outcome"})

// =============================================================================
// Memo — bounded memoization over resolver calls
// =============================================================================

// memoDefaultEntries bounds the in-process cache to the most recent lookups.
// 320 entries covers a busy auto-suggest session without unbounded growth.
const memoDefaultEntries = 320

// memoKey identifies one memoized resolver call. Two calls share a cache
// entry only when every field matches, including the timeout: a lookup that
// answered within 1s is not evidence about what a 100ms budget would see.
type memoKey struct {
	Name    string
	Kind    Kind
	Timeout time.Duration
	Reverse bool
}

// Memo memoizes resolver calls with a fixed-capacity LRU and deduplicates
// concurrent identical lookups.
//
// Description:
//
//	Lookup order is memo LRU → persisted store (optional, nil-safe) →
//	network. Successful answers — including empty ones — are cached at
//	every tier; errors and timeouts are never cached. Concurrent callers
//	asking for the same key share a single in-flight network call via
//	singleflight.
//
//	Memo is the only state that outlives a single parse call.
//
// Thread Safety: Safe for concurrent use.
type Memo struct {
	cache  *lru.Cache[memoKey, []Record]
	group  singleflight.Group
	store  Store
	logger *slog.Logger
}

// NewMemo creates a memoization layer with the given capacity.
//
// Inputs:
//
//	entries - LRU capacity. Zero or negative uses the default (320).
//	store   - Persisted second tier. Nil disables persistence.
//	logger  - Logger for hit/miss diagnostics. May be nil.
//
// Outputs:
//
//	*Memo - Ready-to-use memo layer. Never nil on success.
//	error - Non-nil only if the LRU cannot be constructed.
func NewMemo(entries int, store Store, logger *slog.Logger) (*Memo, error) {
	if entries <= 0 {
		entries = memoDefaultEntries
	}
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[memoKey, []Record](entries)
	if err != nil {
		return nil, fmt.Errorf("resolve: creating memo cache: %w", err)
	}
	return &Memo{cache: cache, store: store, logger: logger}, nil
}

// Resolve answers a lookup through the cache tiers, calling the underlying
// resolver at most once per distinct in-flight key.
func (m *Memo) Resolve(ctx context.Context, r Resolver, name string, reverse bool, timeout time.Duration) ([]Record, error) {
	key := memoKey{Name: name, Kind: r.Kind(), Timeout: timeout, Reverse: reverse}

	if recs, ok := m.cache.Get(key); ok {
		memoLookupTotal.WithLabelValues("memo_hit").Inc()
		return recs, nil
	}

	if m.store != nil {
		recs, ok, err := m.store.Load(ctx, storeKey(key.Kind, key.Name, key.Reverse))
		if err != nil {
			// Persistence failure is non-fatal; fall through to the network.
			m.logger.Warn("resolver store load failed",
				slog.String("kind", string(key.Kind)),
				slog.String("error", err.Error()),
			)
		} else if ok {
			memoLookupTotal.WithLabelValues("store_hit").Inc()
			m.cache.Add(key, recs)
			return recs, nil
		}
	}

	memoLookupTotal.WithLabelValues("miss").Inc()

	flightKey := fmt.Sprintf("%s|%s|%t|%s", key.Kind, key.Name, key.Reverse, key.Timeout)
	v, err, _ := m.group.Do(flightKey, func() (any, error) {
		return r.Resolve(ctx, name, reverse, timeout)
	})
	if err != nil {
		// Timeouts and transport errors are terminal "no result" for this
		// call and are not cached.
		return nil, err
	}
	recs := v.([]Record)

	m.cache.Add(key, recs)
	if m.store != nil {
		if err := m.store.Save(ctx, storeKey(key.Kind, key.Name, key.Reverse), recs); err != nil {
			m.logger.Warn("resolver store save failed",
				slog.String("kind", string(key.Kind)),
				slog.String("error", err.Error()),
			)
		}
	}
	return recs, nil
}

// Len reports the number of memoized entries (diagnostics only).
func (m *Memo) Len() int {
	return m.cache.Len()
}
