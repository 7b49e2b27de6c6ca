// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pemira/evote-server/models"
)

func TestWithLogging(t *testing.T) {
	handlerCalled := false
	testHandler := func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	}

	wrappedHandler := WithLogging(testHandler)

	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()

	wrappedHandler(w, req)

	if !handlerCalled {
		t.Error("Expected handler to be called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "success" {
		t.Errorf("Expected body 'success', got '%s'", w.Body.String())
	}
}

func TestWithLogging_PreservesResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"OK", http.StatusOK, "ok"},
		{"Created", http.StatusCreated, `{"id":"123"}`},
		{"BadRequest", http.StatusBadRequest, `{"error":"bad request"}`},
		{"Conflict", http.StatusConflict, "conflict"},
		{"InternalError", http.StatusInternalServerError, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				w.Write([]byte(tc.body))
			})

			req := httptest.NewRequest("POST", "/api/test", nil)
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if w.Body.String() != tc.body {
				t.Errorf("Expected body '%s', got '%s'", tc.body, w.Body.String())
			}
		})
	}
}

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()

	JSONResponse(w, http.StatusCreated, map[string]string{"message": "hello"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}
	if strings.TrimSpace(w.Body.String()) != `{"message":"hello"}` {
		t.Errorf("Unexpected body: %s", w.Body.String())
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()

	ErrorResponse(w, http.StatusConflict, "Voter code already used")

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error != http.StatusText(http.StatusConflict) {
		t.Errorf("Expected error %q, got %q", http.StatusText(http.StatusConflict), resp.Error)
	}
	if resp.Message != "Voter code already used" {
		t.Errorf("Unexpected message: %q", resp.Message)
	}
}

func TestParseJSONBody(t *testing.T) {
	type payload struct {
		Code string `json:"code"`
	}

	req := httptest.NewRequest("POST", "/test", bytes.NewReader([]byte(`{"code":"AAAAAA"}`)))
	var p payload
	if err := ParseJSONBody(req, &p); err != nil {
		t.Fatalf("ParseJSONBody failed: %v", err)
	}
	if p.Code != "AAAAAA" {
		t.Errorf("Expected code AAAAAA, got %q", p.Code)
	}

	req = httptest.NewRequest("POST", "/test", bytes.NewReader([]byte(`not json`)))
	if err := ParseJSONBody(req, &p); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Preflight requests short-circuit
	req := httptest.NewRequest("OPTIONS", "/voter/cast", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Unexpected allow-origin: %q", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "X-Admin-Code") {
		t.Error("Expected X-Admin-Code in allowed headers")
	}

	// Regular requests pass through with headers set
	req = httptest.NewRequest("GET", "/results", nil)
	w = httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Expected allow-origin header on regular requests")
	}
}
