// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package search

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// newTestRouter wires a parse-only service (nil cascade) behind the real
// routes.
func newTestRouter(batchLimit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc := NewService(nil, 5*time.Second, nil)
	RegisterRoutes(router.Group("/v1"), NewHandlers(svc, batchLimit, nil))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleParse(t *testing.T) {
	router := newTestRouter(0)

	w := postJSON(t, router, "/v1/search/parse", ParseRequest{Query: "ZTF21abfmbix"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}

	var got struct {
		Object string `json:"object"`
		Type   string `json:"type"`
		Action string `json:"action"`
		Query  string `json:"string"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.Object != "ZTF21abfmbix" || got.Type != "ztf" || got.Action != "objectid" {
		t.Errorf("intent = %+v, want a complete identifier dispatched by object id", got)
	}
	if got.Query != "ZTF21abfmbix" {
		t.Errorf("echoed query = %q, want the raw input", got.Query)
	}
}

func TestHandleParse_GarbageQueryIsStillOK(t *testing.T) {
	router := newTestRouter(0)

	w := postJSON(t, router, "/v1/search/parse", ParseRequest{Query: `unbalanced "quote`})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (the parser fails closed, not the endpoint)", w.Code)
	}
	var got struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.Action != "unknown" {
		t.Errorf("action = %q, want unknown", got.Action)
	}
}

func TestHandleParse_BadBodyIs400(t *testing.T) {
	router := newTestRouter(0)

	req := httptest.NewRequest(http.MethodPost, "/v1/search/parse", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleParseBatch_OrderPreserved(t *testing.T) {
	router := newTestRouter(0)

	queries := []string{"ZTF21abfmbix", "ra=10 dec=20", "class=SN candidate"}
	w := postJSON(t, router, "/v1/search/parse/batch", BatchParseRequest{Queries: queries})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var got struct {
		Intents []struct {
			Query  string `json:"string"`
			Action string `json:"action"`
		} `json:"intents"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(got.Intents) != len(queries) {
		t.Fatalf("got %d intents, want %d", len(got.Intents), len(queries))
	}
	wantActions := []string{"objectid", "conesearch", "class"}
	for i, in := range got.Intents {
		if in.Query != queries[i] {
			t.Errorf("intent %d echoes %q, want %q (request order)", i, in.Query, queries[i])
		}
		if in.Action != wantActions[i] {
			t.Errorf("intent %d action = %q, want %q", i, in.Action, wantActions[i])
		}
	}
}

func TestHandleParseBatch_OversizedIs400(t *testing.T) {
	router := newTestRouter(2)

	w := postJSON(t, router, "/v1/search/parse/batch", BatchParseRequest{
		Queries: []string{"a", "b", "c"},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for a batch above the limit", w.Code)
	}
}

func TestHealthAndReady(t *testing.T) {
	router := newTestRouter(0)

	for _, path := range []string{"/v1/search/health", "/v1/search/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}
}
