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

import (
	"regexp"
	"strconv"
)

// =============================================================================
// key:value / key=value extraction
// =============================================================================

var (
	// keywordRe matches key:value and key=value tokens. The key is
	// alphanumeric/underscore; the value carries no further colon/equals
	// so that sexagesimal fragments like 12:55:17 are not mistaken for
	// keywords.
	keywordRe = regexp.MustCompile(`^([A-Za-z0-9_]+)[:=]([^:=]+)$`)

	// angularValueRe matches a numeric value with an optional angular unit
	// suffix: d (degrees), m or ' (arcminutes), s or " (arcseconds).
	angularValueRe = regexp.MustCompile(`^([+-]?[0-9]+(?:\.[0-9]*)?)([dms'"]?)$`)
)

// parseKeyword extracts a key:value or key=value token.
//
// Outputs:
//
//	string - The parameter key.
//	any    - The converted value: float64 for numeric values (angular
//	         units normalized to degrees), string otherwise.
//	bool   - False when the token is not a keyword form.
func parseKeyword(token string) (string, any, bool) {
	m := keywordRe.FindStringSubmatch(token)
	if m == nil {
		return "", nil, false
	}
	key := m[1]
	return key, convertAngular(key, m[2]), true
}

// convertAngular converts a raw keyword value to its stored form.
//
// Description:
//
//	Numeric values with a unit suffix are converted to degrees: d is
//	degrees, m or ' is arcminutes (/60), s or " is arcseconds (/3600).
//	Unsuffixed numeric values are stored as-is, except for the key
//	literally named "r": a bare radius is assumed to be arcseconds and
//	divided by 3600. Non-numeric values are stored as the raw string.
//
//	The arcsecond default for bare "r" and the as-is default for every
//	other bare numeric keyword are load-bearing; downstream conesearch
//	dispatch assumes all angular params are degrees.
func convertAngular(key, raw string) any {
	m := angularValueRe.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return raw
	}
	switch m[2] {
	case "d":
		return v
	case "m", "'":
		return v / 60.0
	case "s", `"`:
		return v / 3600.0
	default:
		if key == "r" {
			return v / 3600.0
		}
		return v
	}
}
