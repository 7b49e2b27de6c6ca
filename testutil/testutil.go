// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pemira/evote-server/cliparse"
	"github.com/pemira/evote-server/db"
)

// TestAdminCode is the admin secret used across handler tests
const TestAdminCode = "test-admin-secret"

// SetupTestDB creates a fresh SQLite database with the full schema in a
// per-test temp directory. The file is cleaned up with the test.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "evote_test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()
	return cliparse.Config{
		Port:              4680,
		DatabaseURL:       "unused-in-tests",
		DatabaseType:      "sqlite",
		AdminCode:         TestAdminCode,
		AssetsDir:         t.TempDir(),
		ReconcileSchedule: "@every 5m",
	}
}

// CreateTestElection inserts an election and returns its ID
func CreateTestElection(t *testing.T, conn *sql.DB, title string, active bool) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO election (id, title, description, start_date, end_date, is_active)
		VALUES ($1, $2, 'A test election', '2026-09-01', '2026-09-02', $3)
	`, id, title, active)
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return id
}

// AddTestCandidate inserts a candidate for an election and returns its ID
func AddTestCandidate(t *testing.T, conn *sql.DB, electionID, name string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO candidate (id, election_id, name, vision, mission, photo_url)
		VALUES ($1, $2, $3, 'Vision', 'Mission', '')
	`, id, electionID, name)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return id
}

// AddTestCode inserts a voter code with the given used state
func AddTestCode(t *testing.T, conn *sql.DB, code string, used bool) {
	t.Helper()

	_, err := conn.Exec(`INSERT INTO voter_code (code, is_used) VALUES ($1, $2)`, code, used)
	if err != nil {
		t.Fatalf("Failed to create test code: %v", err)
	}
}

// AddTestBallot inserts a ballot and returns its ID
func AddTestBallot(t *testing.T, conn *sql.DB, electionID, candidateID, voterCode string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO ballot (id, election_id, candidate_id, voter_code, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, electionID, candidateID, voterCode, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	return id
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AdminHeaders returns the header map admin endpoints expect
func AdminHeaders() map[string]string {
	return map[string]string{"X-Admin-Code": TestAdminCode}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
