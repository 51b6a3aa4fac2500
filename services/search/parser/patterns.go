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
// Fixed-format identifier patterns
// =============================================================================
//
// Object identifiers are recognized against an ordered list of fixed-format
// patterns. Each pattern is a sequence of positional segments (a literal
// prefix, a run of digits, a run of lowercase letters) rather than a regular
// expression: positional segments make prefix ("partial") matching a plain
// left-to-right walk, which a regexp would need a tower of nested optional
// groups to express.
//
// Each pattern carries a minimum token length below which matching is not
// attempted. The minimums are tuned empirically against real user keystroke
// streams; do not lower them without re-checking short-prefix false positives
// (e.g. a bare "T" matching the tracklet pattern).

// segClass is the character class of one pattern segment.
type segClass int

const (
	segLiteral segClass = iota // exact bytes
	segDigit                   // [0-9]
	segLower                   // [a-z]
)

// segment is one positional run within a pattern.
type segment struct {
	class segClass
	text  string // segLiteral only
	count int    // number of characters (len(text) for segLiteral)
}

// pattern is one fixed-format identifier layout.
type pattern struct {
	typ         Type
	hint        string
	partialHint string
	minLen      int
	segments    []segment
}

// length returns the total character count of a complete identifier.
func (p pattern) length() int {
	n := 0
	for _, s := range p.segments {
		n += s.count
	}
	return n
}

// objectPatterns is the ordered pattern list. First match wins; no
// backtracking across patterns.
var objectPatterns = []pattern{
	{
		// ZTF transient identifier: ZTF + 2-digit year + 7 lowercase
		// letters, e.g. ZTF21abfmbix.
		typ:         TypeZTF,
		hint:        "ZTF object identifier",
		partialHint: "partial ZTF object identifier",
		minLen:      3,
		segments: []segment{
			{class: segLiteral, text: "ZTF", count: 3},
			{class: segDigit, count: 2},
			{class: segLower, count: 7},
		},
	},
	{
		// Tracklet identifier: TRCK_<8-digit date>_<6-digit time>_<2-digit
		// index>, e.g. TRCK_20211204_083312_00.
		typ:         TypeTracklet,
		hint:        "tracklet identifier",
		partialHint: "partial tracklet identifier",
		minLen:      4,
		segments: []segment{
			{class: segLiteral, text: "TRCK_", count: 5},
			{class: segDigit, count: 8},
			{class: segLiteral, text: "_", count: 1},
			{class: segDigit, count: 6},
			{class: segLiteral, text: "_", count: 1},
			{class: segDigit, count: 2},
		},
	},
}

// patternMatch is the result of matching one token against the pattern list.
type patternMatch struct {
	typ     Type
	hint    string
	partial bool
}

// matchPatterns tests a token against the ordered pattern list.
//
// Description:
//
//	Patterns are tried in listed order; the first pattern whose layout the
//	token satisfies wins. A token equal in length to the full pattern and
//	valid at every position is an exact match. A shorter token that is
//	valid at every position it covers — and at least minLen long — is a
//	partial match (a prefix still being typed). Longer tokens never match.
//
// Outputs:
//
//	patternMatch - Match classification. Zero value when ok is false.
//	bool         - True when some pattern matched.
func matchPatterns(token string) (patternMatch, bool) {
	for _, p := range objectPatterns {
		if len(token) < p.minLen || len(token) > p.length() {
			continue
		}
		if !p.validPrefix(token) {
			continue
		}
		if len(token) == p.length() {
			return patternMatch{typ: p.typ, hint: p.hint}, true
		}
		return patternMatch{typ: p.typ, hint: p.partialHint, partial: true}, true
	}
	return patternMatch{}, false
}

// validPrefix reports whether every byte of the token is valid for its
// position in the pattern layout. The token must not be longer than the
// full pattern.
func (p pattern) validPrefix(token string) bool {
	pos := 0
	for _, seg := range p.segments {
		for i := 0; i < seg.count; i++ {
			if pos >= len(token) {
				return true // token exhausted mid-pattern: valid prefix
			}
			c := token[pos]
			switch seg.class {
			case segLiteral:
				if c != seg.text[i] {
					return false
				}
			case segDigit:
				if c < '0' || c > '9' {
					return false
				}
			case segLower:
				if c < 'a' || c > 'z' {
					return false
				}
			}
			pos++
		}
	}
	return pos == len(token)
}
