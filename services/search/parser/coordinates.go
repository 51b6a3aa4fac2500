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
// Coordinate recognition
// =============================================================================

var (
	// decimalPairRe matches "ra dec [radius]" in decimal degrees. The
	// radius, when present, is unsigned and interpreted as arcseconds.
	decimalPairRe = regexp.MustCompile(
		`^([+-]?[0-9]+(?:\.[0-9]+)?)\s+([+-]?[0-9]+(?:\.[0-9]+)?)(?:\s+([0-9]+(?:\.[0-9]+)?))?$`)

	// sexagesimalRe matches "HH MM SS.s [+-]DD MM SS.s [radius]" with
	// space, colon, or hour/minute/second-letter separators. The
	// declination sign defaults to positive when absent.
	sexagesimalRe = regexp.MustCompile(
		`^([0-9]{1,2})[h: ]([0-9]{1,2})[m: ]([0-9]+(?:\.[0-9]+)?)s?` +
			`\s*([+-]?)([0-9]{1,3})[d: ]([0-9]{1,2})[m: ]([0-9]+(?:\.[0-9]+)?)s?` +
			`(?:\s+([0-9]+(?:\.[0-9]+)?))?$`)
)

// parseCoordinates tries to read an equatorial position out of the leftover
// (non-pattern, non-keyword) text.
//
// Description:
//
//	Two forms are tried in order: a decimal-degree pair with optional
//	trailing radius, then a sexagesimal pair. Right-ascension hours are
//	converted to degrees (x15); a trailing radius is arcseconds and is
//	stored in degrees under params["r"]. On a match the intent's ra/dec
//	params, type and hint are set and true is returned. No match leaves
//	the intent untouched.
func parseCoordinates(text string, in *Intent) bool {
	if m := decimalPairRe.FindStringSubmatch(text); m != nil {
		ra, err1 := strconv.ParseFloat(m[1], 64)
		dec, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			return false
		}
		applyPosition(in, ra, dec, m[3], "equatorial coordinates")
		return true
	}

	if m := sexagesimalRe.FindStringSubmatch(text); m != nil {
		raH, e1 := strconv.ParseFloat(m[1], 64)
		raM, e2 := strconv.ParseFloat(m[2], 64)
		raS, e3 := strconv.ParseFloat(m[3], 64)
		decD, e4 := strconv.ParseFloat(m[5], 64)
		decM, e5 := strconv.ParseFloat(m[6], 64)
		decS, e6 := strconv.ParseFloat(m[7], 64)
		if e1 != nil || e2 != nil || e3 != nil || e4 != nil || e5 != nil || e6 != nil {
			return false
		}
		ra := (raH + raM/60.0 + raS/3600.0) * 15.0
		dec := decD + decM/60.0 + decS/3600.0
		if m[4] == "-" {
			dec = -dec
		}
		applyPosition(in, ra, dec, m[8], "sexagesimal coordinates")
		return true
	}

	return false
}

// applyPosition records a recognized sky position on the intent. radius is
// the raw arcsecond string, empty when absent.
func applyPosition(in *Intent, ra, dec float64, radius, hint string) {
	in.Params["ra"] = ra
	in.Params["dec"] = dec
	in.Type = TypeCoordinates
	in.Hint = hint
	if radius != "" {
		if r, err := strconv.ParseFloat(radius, 64); err == nil {
			in.Params["r"] = r / 3600.0
			in.Hint = hint + " with radius"
		}
	}
}
