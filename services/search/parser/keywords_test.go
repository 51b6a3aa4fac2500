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
	"math"
	"testing"
)

func TestParseKeyword_Forms(t *testing.T) {
	cases := []struct {
		token   string
		wantKey string
		wantOK  bool
	}{
		{"r=10", "r", true},
		{"r:10", "r", true},
		{"class=SN", "class", true},
		{"last_days=7", "last_days", true},
		{"12:55:17", "", false}, // sexagesimal fragment, not a keyword
		{"plain", "", false},
		{"=5", "", false},
		{"key=", "", false},
	}
	for _, tc := range cases {
		key, _, ok := parseKeyword(tc.token)
		if ok != tc.wantOK {
			t.Errorf("parseKeyword(%q) ok = %t, want %t", tc.token, ok, tc.wantOK)
			continue
		}
		if ok && key != tc.wantKey {
			t.Errorf("parseKeyword(%q) key = %q, want %q", tc.token, key, tc.wantKey)
		}
	}
}

func TestConvertAngular_UnitSuffixes(t *testing.T) {
	cases := []struct {
		key  string
		raw  string
		want float64
	}{
		{"r", "10d", 10},
		{"r", "10m", 10.0 / 60},
		{"r", "10'", 10.0 / 60},
		{"r", "10s", 10.0 / 3600},
		{"r", `10"`, 10.0 / 3600},
		// Bare radius defaults to arcseconds.
		{"r", "10", 10.0 / 3600},
		// Other bare numeric keywords are stored as-is.
		{"window", "10", 10},
		{"dec", "-3.5", -3.5},
		// Suffixed values convert to degrees regardless of key.
		{"window", "30m", 0.5},
	}
	for _, tc := range cases {
		got := convertAngular(tc.key, tc.raw)
		f, ok := got.(float64)
		if !ok {
			t.Errorf("convertAngular(%q, %q) = %T, want float64", tc.key, tc.raw, got)
			continue
		}
		if math.Abs(f-tc.want) > 1e-12 {
			t.Errorf("convertAngular(%q, %q) = %v, want %v", tc.key, tc.raw, f, tc.want)
		}
	}
}

func TestConvertAngular_NonNumericPassthrough(t *testing.T) {
	got := convertAngular("class", "SN candidate")
	s, ok := got.(string)
	if !ok || s != "SN candidate" {
		t.Errorf("convertAngular(class, \"SN candidate\") = %v (%T), want the raw string", got, got)
	}
}
