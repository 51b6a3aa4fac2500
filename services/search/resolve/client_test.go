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
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newResolverServer serves a canned JSON body and captures the last request
// payload for assertions.
func newResolverServer(t *testing.T, body string, captured *resolverRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != resolverPath {
			t.Errorf("path = %s, want %s", r.URL.Path, resolverPath)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q, want application/json", ct)
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("decoding request payload: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestClient_RequestPayload(t *testing.T) {
	var got resolverRequest
	srv := newResolverServer(t, "[]", &got)
	defer srv.Close()

	client := NewClient(srv.URL+"/", 7, nil) // trailing slash must be tolerated
	if _, err := client.call(context.Background(), KindTNS, "SN 2024abc", true, time.Second); err != nil {
		t.Fatalf("call: %v", err)
	}

	want := resolverRequest{Resolver: "tns", Name: "SN 2024abc", Reverse: true, NMax: 7}
	if got != want {
		t.Errorf("payload = %+v, want %+v", got, want)
	}
}

func TestClient_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, nil)
	_, err := client.call(context.Background(), KindSimbad, "M 31", false, time.Second)
	if err == nil {
		t.Fatal("expected an error for status 502")
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("a bad status must not masquerade as a timeout")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error %q should carry the status code", err)
	}
}

func TestClient_DeadlineExpiryIsErrTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.Write([]byte("[]"))
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(srv.URL, 0, nil)
	_, err := client.call(context.Background(), KindSSO, "Vesta", false, 25*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestTNSResolver_DecodesWireRecords(t *testing.T) {
	body := `[
		{"d:fullname": "SN 2024abc", "d:internalname": "ZTF24aaaaaaa", "d:ra": 210.91, "d:declination": -19.52},
		{"d:fullname": "AT 2024abd", "d:internalname": "ZTF24aaaaaab", "d:ra": null, "d:declination": null}
	]`
	srv := newResolverServer(t, body, nil)
	defer srv.Close()

	r := NewTNSResolver(NewClient(srv.URL, 0, nil))
	if r.Kind() != KindTNS {
		t.Fatalf("kind = %q, want %q", r.Kind(), KindTNS)
	}
	recs, err := r.Resolve(context.Background(), "2024ab", false, time.Second)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	first := recs[0]
	if first.FullName != "SN 2024abc" || first.Name != "ZTF24aaaaaaa" {
		t.Errorf("first record = %+v, want fullname/internalname mapped", first)
	}
	if first.RA == nil || *first.RA != 210.91 || first.Dec == nil || *first.Dec != -19.52 {
		t.Errorf("first record position = (%v, %v), want (210.91, -19.52)", first.RA, first.Dec)
	}
	if recs[1].RA != nil || recs[1].Dec != nil {
		t.Error("null wire coordinates must decode as absent, not zero")
	}
}

func TestSimbadResolver_DecodesWireRecords(t *testing.T) {
	body := `[{"oname": "M  31", "otype": "Galaxy", "jradeg": 10.684, "jdedeg": 41.269}]`
	srv := newResolverServer(t, body, nil)
	defer srv.Close()

	r := NewSimbadResolver(NewClient(srv.URL, 0, nil))
	recs, err := r.Resolve(context.Background(), "Andromeda", false, time.Second)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].Name != "M  31" {
		t.Errorf("name = %q, want %q", recs[0].Name, "M  31")
	}
	if recs[0].RA == nil || *recs[0].RA != 10.684 {
		t.Errorf("ra = %v, want 10.684", recs[0].RA)
	}
}

func TestSSOResolver_DecodesWireRecords(t *testing.T) {
	body := `[{"i:name": "Vesta", "i:number": "4", "i:source": "quaero"}]`
	srv := newResolverServer(t, body, nil)
	defer srv.Close()

	r := NewSSOResolver(NewClient(srv.URL, 0, nil))
	recs, err := r.Resolve(context.Background(), "vesta", false, time.Second)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(recs) != 1 || recs[0].Name != "Vesta" {
		t.Fatalf("records = %+v, want one record named Vesta", recs)
	}
	if recs[0].RA != nil || recs[0].Dec != nil {
		t.Error("solar-system records must carry no fixed position")
	}
}

func TestZTFResolver_DecodesWireRecords(t *testing.T) {
	body := `[{"i:objectId": "ZTF21abfmbix", "i:ra": 193.82, "i:dec": 2.89}]`
	srv := newResolverServer(t, body, nil)
	defer srv.Close()

	r := NewZTFResolver(NewClient(srv.URL, 0, nil))
	recs, err := r.Resolve(context.Background(), "ZTF21abfmbix", false, time.Second)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].Name != "ZTF21abfmbix" || recs[0].RA == nil || *recs[0].RA != 193.82 {
		t.Errorf("record = %+v, want the identifier with its position", recs[0])
	}
}

func TestResolver_MalformedPayloadIsError(t *testing.T) {
	srv := newResolverServer(t, `{"not": "a list"}`, nil)
	defer srv.Close()

	r := NewTNSResolver(NewClient(srv.URL, 0, nil))
	if _, err := r.Resolve(context.Background(), "x", false, time.Second); err == nil {
		t.Fatal("expected a decode error for a non-array payload")
	}
}
