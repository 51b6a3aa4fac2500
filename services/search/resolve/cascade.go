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
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/AleutianSky/services/search/parser"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	resolverRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sky",
		Subsystem: "resolver",
		Name:      "request_total",
		Help:      "Resolver calls by kind and outcome: hit, empty, timeout, error",
	}, []string{"kind", "outcome"})

	resolverLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sky",
		Subsystem: "resolver",
		Name:      "latency_seconds",
		Help:      "Latency of resolver calls by kind",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
	}, []string{"kind"})
)

// =============================================================================
// OTel Tracer
// =============================================================================

var cascadeTracer = otel.Tracer("aleutian.search.resolve")

// =============================================================================
// Cascade
// =============================================================================

// defaultTimeout bounds each resolver call when the caller supplies none.
const defaultTimeout = 5 * time.Second

// Resolvers bundles the external capabilities the cascade orchestrates.
// Any field may be nil; a nil resolver is skipped.
type Resolvers struct {
	TNS    Resolver
	Simbad Resolver
	SSO    Resolver
	ZTF    Resolver
}

// Cascade tries name-resolution services in strict precedence order and
// applies the first non-empty answer to the parse intent.
//
// Description:
//
//	Precedence is TNS forward, TNS reverse, SIMBAD, then SSODNET, with
//	short-circuit on the first resolver returning records. TNS and SIMBAD
//	are gated on the candidate starting with an alphabetic character;
//	SSODNET is exempt from that gate and is always the last resort. The
//	whole cascade runs only while no sky position has been established —
//	a position from keyword params or an earlier stage wins outright.
//
//	There is deliberately no parallel fan-out: later services are skipped
//	once an earlier one answers, which also minimizes external load. A
//	timed-out or empty answer is terminal "no match" for that resolver
//	within the current parse call; nothing retries automatically.
//
// Thread Safety: Safe for concurrent use.
type Cascade struct {
	resolvers Resolvers
	memo      *Memo
	logger    *slog.Logger
}

// NewCascade creates a resolver cascade.
//
// Inputs:
//
//	resolvers - External resolver capabilities. Nil fields are skipped.
//	memo      - Memoization layer. Must not be nil.
//	logger    - Logger instance. May be nil.
func NewCascade(resolvers Resolvers, memo *Memo, logger *slog.Logger) *Cascade {
	if memo == nil {
		panic("NewCascade: memo must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cascade{resolvers: resolvers, memo: memo, logger: logger}
}

// Enrich resolves the intent's candidate object against external services
// and folds the answer into the intent.
//
// Description:
//
//	Enrich mutates the intent in place and returns nothing: resolver
//	failures are recovered locally (the cascade proceeds or gives up) and
//	are never surfaced to the caller. The caller re-runs the action
//	classifier afterwards.
//
//	Fixed-format types are final — except the one positional special
//	case: a complete (non-partial) ZTF identifier with a user-supplied
//	radius is upgraded to a position search by fetching the object's
//	ra/dec through the identifier resolver.
func (c *Cascade) Enrich(ctx context.Context, in *parser.Intent, timeout time.Duration) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ctx, span := cascadeTracer.Start(ctx, "cascade.enrich")
	defer span.End()
	span.SetAttributes(
		attribute.String("intent.type", string(in.Type)),
		attribute.String("intent.object", in.Object),
	)

	switch in.Type {
	case parser.TypeZTF:
		c.maybeUpgradeZTF(ctx, in, timeout)
		return
	case parser.TypeTracklet, parser.TypeCoordinates, parser.TypeNone:
		return
	}
	if in.Object == "" || in.HasPosition() {
		return
	}

	if parser.StartsAlphabetic(in.Object) {
		// TNS forward, then reverse when forward yields nothing.
		for _, reverse := range []bool{false, true} {
			if recs, ok := c.try(ctx, c.resolvers.TNS, in.Object, reverse, timeout); ok {
				applyTNS(in, recs)
				span.SetAttributes(attribute.String("resolved.by", "tns"))
				return
			}
		}
		if recs, ok := c.try(ctx, c.resolvers.Simbad, in.Object, false, timeout); ok {
			applySimbad(in, recs)
			span.SetAttributes(attribute.String("resolved.by", "simbad"))
			return
		}
	}

	// Solar-system objects may start with a digit (e.g. "2010 JO69"), so
	// SSODNET skips the alphabetic gate.
	if recs, ok := c.try(ctx, c.resolvers.SSO, in.Object, false, timeout); ok {
		applySSO(in, recs)
		span.SetAttributes(attribute.String("resolved.by", "ssodnet"))
		return
	}

	span.SetStatus(codes.Ok, "no resolver matched")
}

// try runs one memoized resolver call and classifies its outcome for
// metrics. ok is true only for a non-empty answer.
func (c *Cascade) try(ctx context.Context, r Resolver, name string, reverse bool, timeout time.Duration) ([]Record, bool) {
	if r == nil {
		return nil, false
	}
	kind := string(r.Kind())

	start := time.Now()
	recs, err := c.memo.Resolve(ctx, r, name, reverse, timeout)
	resolverLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, ErrTimeout):
		resolverRequestTotal.WithLabelValues(kind, "timeout").Inc()
		c.logger.Warn("resolver timed out",
			slog.String("kind", kind),
			slog.String("name", name),
			slog.Duration("timeout", timeout),
		)
		return nil, false
	case err != nil:
		resolverRequestTotal.WithLabelValues(kind, "error").Inc()
		c.logger.Warn("resolver failed",
			slog.String("kind", kind),
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, false
	case len(recs) == 0:
		resolverRequestTotal.WithLabelValues(kind, "empty").Inc()
		return nil, false
	}

	resolverRequestTotal.WithLabelValues(kind, "hit").Inc()
	c.logger.Debug("resolver hit",
		slog.String("kind", kind),
		slog.String("name", name),
		slog.Int("records", len(recs)),
	)
	return recs, true
}

// maybeUpgradeZTF fetches the position of a complete ZTF identifier when
// the user asked for a radius, turning an identifier search into a
// position search around the object.
func (c *Cascade) maybeUpgradeZTF(ctx context.Context, in *parser.Intent, timeout time.Duration) {
	if in.Partial {
		return
	}
	if _, ok := in.Params["r"]; !ok {
		return
	}
	recs, ok := c.try(ctx, c.resolvers.ZTF, in.Object, false, timeout)
	if !ok {
		return
	}
	first := recs[0]
	if first.RA != nil && first.Dec != nil {
		in.Params["ra"] = *first.RA
		in.Params["dec"] = *first.Dec
	}
}

// =============================================================================
// Hit application
// =============================================================================

// applyTNS folds a TNS answer into the intent. The first record's full name
// becomes the canonical object; further distinct full names surface as
// completions.
func applyTNS(in *parser.Intent, recs []Record) {
	first := recs[0]
	in.Object = canonicalName(first)
	in.Type = parser.TypeTNS
	in.Hint = "object resolved by TNS"
	in.Partial = false
	if first.RA != nil && first.Dec != nil {
		in.Params["ra"] = *first.RA
		in.Params["dec"] = *first.Dec
	}
	if len(recs) > 1 {
		seen := map[string]bool{in.Object: true}
		for _, r := range recs[1:] {
			name := canonicalName(r)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			in.Completions = append(in.Completions, name)
		}
	}
}

// applySimbad folds a SIMBAD answer into the intent. Single-result contract:
// no completions.
func applySimbad(in *parser.Intent, recs []Record) {
	first := recs[0]
	in.Object = first.Name
	in.Type = parser.TypeSimbad
	in.Hint = "object resolved by SIMBAD"
	in.Partial = false
	if first.RA != nil && first.Dec != nil {
		in.Params["ra"] = *first.RA
		in.Params["dec"] = *first.Dec
	}
}

// applySSO folds an SSODNET answer into the intent. Moving objects carry no
// fixed position, so ra/dec stay unset; all candidate names surface as
// completions when the answer is ambiguous.
func applySSO(in *parser.Intent, recs []Record) {
	in.Object = recs[0].Name
	in.Type = parser.TypeSSO
	in.Hint = "solar system object resolved by SSODNET"
	in.Partial = false
	if len(recs) > 1 {
		for _, r := range recs {
			if r.Name != "" {
				in.Completions = append(in.Completions, r.Name)
			}
		}
	}
}

// canonicalName prefers the full designation over the internal name.
func canonicalName(r Record) string {
	if r.FullName != "" {
		return r.FullName
	}
	return r.Name
}
