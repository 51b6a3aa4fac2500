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

// newTestIntent returns an empty intent ready for coordinate parsing.
func newTestIntent() *Intent {
	return &Intent{Type: TypeNone, Action: ActionUnknown, Params: map[string]any{}}
}

// paramFloat fails the test when the param is absent or not a float64.
func paramFloat(t *testing.T, in *Intent, key string) float64 {
	t.Helper()
	v, ok := in.Params[key]
	if !ok {
		t.Fatalf("params[%q] missing", key)
	}
	f, ok := v.(float64)
	if !ok {
		t.Fatalf("params[%q] = %T, want float64", key, v)
	}
	return f
}

func TestParseCoordinates_DecimalPair(t *testing.T) {
	in := newTestIntent()
	if !parseCoordinates("193.8217 2.8973", in) {
		t.Fatal("expected a decimal pair match")
	}
	if in.Type != TypeCoordinates {
		t.Errorf("type = %q, want %q", in.Type, TypeCoordinates)
	}
	if ra := paramFloat(t, in, "ra"); math.Abs(ra-193.8217) > 1e-9 {
		t.Errorf("ra = %v, want 193.8217", ra)
	}
	if dec := paramFloat(t, in, "dec"); math.Abs(dec-2.8973) > 1e-9 {
		t.Errorf("dec = %v, want 2.8973", dec)
	}
	if _, ok := in.Params["r"]; ok {
		t.Error("no radius was supplied; params[\"r\"] must be absent")
	}
}

func TestParseCoordinates_DecimalPairWithRadius(t *testing.T) {
	in := newTestIntent()
	if !parseCoordinates("193.8217 2.8973 5", in) {
		t.Fatal("expected a decimal pair with radius match")
	}
	if r := paramFloat(t, in, "r"); math.Abs(r-5.0/3600) > 1e-12 {
		t.Errorf("r = %v, want %v degrees", r, 5.0/3600)
	}
	if in.Hint != "equatorial coordinates with radius" {
		t.Errorf("hint = %q, want the radius variant", in.Hint)
	}
}

func TestParseCoordinates_SexagesimalMatchesDecimal(t *testing.T) {
	// The same sky position in all supported separator styles must agree
	// with its decimal-degree form within floating tolerance.
	forms := []string{
		"12:55:17.218 +02:53:50.35",
		"12h55m17.218s +02d53m50.35s",
		"12 55 17.218 +02 53 50.35",
		"12 55 17.218 02 53 50.35", // sign defaults to positive
	}
	for _, form := range forms {
		in := newTestIntent()
		if !parseCoordinates(form, in) {
			t.Errorf("form %q: expected a sexagesimal match", form)
			continue
		}
		ra := paramFloat(t, in, "ra")
		dec := paramFloat(t, in, "dec")
		if math.Abs(ra-193.8217) > 1e-3 {
			t.Errorf("form %q: ra = %v, want ≈193.8217", form, ra)
		}
		if math.Abs(dec-2.8973) > 1e-3 {
			t.Errorf("form %q: dec = %v, want ≈2.8973", form, dec)
		}
	}
}

func TestParseCoordinates_SexagesimalNegativeDeclination(t *testing.T) {
	in := newTestIntent()
	if !parseCoordinates("12:55:17.218 -02:53:50.35", in) {
		t.Fatal("expected a sexagesimal match")
	}
	if dec := paramFloat(t, in, "dec"); dec >= 0 {
		t.Errorf("dec = %v, want negative", dec)
	}
}

func TestParseCoordinates_SexagesimalWithRadius(t *testing.T) {
	in := newTestIntent()
	if !parseCoordinates("12:55:17.218 +02:53:50.35 30", in) {
		t.Fatal("expected a sexagesimal with radius match")
	}
	if r := paramFloat(t, in, "r"); math.Abs(r-30.0/3600) > 1e-12 {
		t.Errorf("r = %v, want %v degrees", r, 30.0/3600)
	}
	if in.Hint != "sexagesimal coordinates with radius" {
		t.Errorf("hint = %q, want the radius variant", in.Hint)
	}
}

func TestParseCoordinates_NoMatch(t *testing.T) {
	for _, text := range []string{
		"Vesta",
		"SN 2024abc",
		"193.8217",          // lone value is not a pair
		"193.8217 2.8973 5 7", // too many values
	} {
		in := newTestIntent()
		if parseCoordinates(text, in) {
			t.Errorf("text %q: unexpected coordinate match", text)
		}
		if len(in.Params) != 0 {
			t.Errorf("text %q: params mutated on non-match: %v", text, in.Params)
		}
	}
}
