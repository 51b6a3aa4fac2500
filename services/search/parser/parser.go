// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package parser turns a free-text search-bar query into a normalized Intent.
//
// The pipeline is a pure, synchronous sequence of stages: tokenizer →
// pattern matcher + keyword extractor (per token) → coordinate parser over
// the leftover text → action classifier. Name resolution against external
// services is a separate concern (services/search/resolve); the parser marks
// candidate names as TypeUnresolved and the cascade enriches them.
//
// Thread Safety: Parse and Classify hold no state; safe for concurrent use.
package parser

import "strings"

// Parse runs the pure parsing stages over a raw query string.
//
// Description:
//
//	Every input, however malformed, yields a well-formed Intent; there are
//	no error returns. Unbalanced quoting fails closed: the Intent comes
//	back with TypeNone, empty params and ActionUnknown.
//
//	Tokens are consumed greedily in input order. The first token matching
//	a fixed-format object pattern claims the object slot; keyword tokens
//	populate params; everything else is rejoined with single spaces and
//	offered to the coordinate parser. Leftover text matching neither
//	coordinate form becomes the unresolved object, ready for the resolver
//	cascade.
//
// Outputs:
//
//	*Intent - Classified parse result. Never nil.
func Parse(query string) *Intent {
	in := &Intent{
		Type:   TypeNone,
		Action: ActionUnknown,
		Params: map[string]any{},
		Query:  query,
	}

	tokens, err := tokenize(query)
	if err != nil {
		// Fail closed on unbalanced quoting: empty result, no error to
		// the caller.
		return in
	}

	var leftover []string
	for _, tok := range tokens {
		if in.Object == "" {
			if m, ok := matchPatterns(tok); ok {
				in.Object = tok
				in.Type = m.typ
				in.Hint = m.hint
				in.Partial = m.partial
				continue
			}
		}
		if key, val, ok := parseKeyword(tok); ok {
			in.Params[key] = val
			continue
		}
		leftover = append(leftover, tok)
	}

	if in.Object == "" {
		rest := strings.Join(leftover, " ")
		if rest != "" && !parseCoordinates(rest, in) {
			in.Object = rest
			in.Type = TypeUnresolved
			in.Hint = "name requiring resolution"
		}
	}

	Classify(in)
	return in
}

// StartsAlphabetic reports whether the object begins with an ASCII letter.
// The resolver cascade uses this gate: TNS and SIMBAD lookups are attempted
// only for alphabetic-leading candidates.
func StartsAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
