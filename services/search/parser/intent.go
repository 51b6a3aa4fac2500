// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package parser

// =============================================================================
// Intent — normalized query intent
// =============================================================================

// Type classifies what the parser recognized in the query.
type Type string

const (
	// TypeNone means nothing was recognized (empty or malformed input).
	TypeNone Type = "none"

	// TypeZTF is a fixed-format ZTF object identifier (complete or prefix).
	TypeZTF Type = "ztf"

	// TypeTracklet is a fixed-format tracklet identifier (complete or prefix).
	TypeTracklet Type = "tracklet"

	// TypeCoordinates is an equatorial sky position, decimal or sexagesimal.
	TypeCoordinates Type = "coordinates"

	// TypeTNS is a transient name resolved by the TNS service.
	TypeTNS Type = "tns"

	// TypeSimbad is an object name resolved by the SIMBAD service.
	TypeSimbad Type = "simbad"

	// TypeSSO is a solar-system object resolved by the SSODNET service.
	TypeSSO Type = "ssodnet"

	// TypeUnresolved is free text that matched no pattern and no coordinate
	// form. It is the input state for the resolver cascade.
	TypeUnresolved Type = "unresolved"
)

// Action is the final dispatch decision derived from the parse state.
type Action string

const (
	// ActionConesearch dispatches a positional search around ra/dec.
	ActionConesearch Action = "conesearch"

	// ActionObjectID dispatches an identifier-based ZTF object lookup.
	ActionObjectID Action = "objectid"

	// ActionTracklet dispatches a tracklet lookup.
	ActionTracklet Action = "tracklet"

	// ActionSSO dispatches a solar-system object lookup.
	ActionSSO Action = "sso"

	// ActionClass dispatches a class-based search (params["class"]).
	ActionClass Action = "class"

	// ActionUnknown means no dispatch decision could be made.
	ActionUnknown Action = "unknown"
)

// Intent is the single normalized output of a parse call.
//
// Description:
//
//	Intent accumulates state as the query flows through the tokenizer,
//	pattern matcher, keyword extractor, coordinate parser and (optionally)
//	the resolver cascade. It is constructed fresh for every parse call and
//	must be treated as immutable once returned to the caller.
//
// Thread Safety: Intent is not shared between parse calls; callers must not
// mutate a returned Intent.
type Intent struct {
	// Object is the canonical resolved name, or the original unparsed
	// remainder when no resolver matched. Empty when the query carried
	// only keywords or coordinates.
	Object string `json:"object,omitempty"`

	// Type classifies what was recognized.
	Type Type `json:"type"`

	// Partial is true when Object matched a fixed-format pattern only as
	// a prefix of the full token (autocomplete-as-you-type). Partial is
	// never true for coordinates or resolver types.
	Partial bool `json:"partial"`

	// Hint is a human-readable description of what was recognized,
	// rendered by the UI auto-suggest component.
	Hint string `json:"hint,omitempty"`

	// Action is the final dispatch decision.
	Action Action `json:"action"`

	// Params maps parameter names to values: float64 for ra, dec, r and
	// any numeric user keyword (angular values normalized to degrees),
	// string otherwise.
	Params map[string]any `json:"params"`

	// Completions lists alternative candidate names when a resolver
	// returned more than one plausible match. Empty unless ambiguity
	// occurred.
	Completions []string `json:"completions,omitempty"`

	// Query preserves the original input string for diagnostics.
	Query string `json:"string"`
}

// HasPosition reports whether both ra and dec have been established.
func (in *Intent) HasPosition() bool {
	_, ra := in.Params["ra"]
	_, dec := in.Params["dec"]
	return ra && dec
}
