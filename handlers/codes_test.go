// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pemira/evote-server/models"
	"github.com/pemira/evote-server/store"
	"github.com/pemira/evote-server/testutil"
)

func newTestCodeHandler(t *testing.T, db *sql.DB) *CodeHandler {
	t.Helper()
	return NewCodeHandler(store.NewVoterCodeStore(db), testutil.GetTestConfig(t))
}

func TestGenerateCodesEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestCodeHandler(t, db)

	tests := []struct {
		name           string
		body           interface{}
		headers        map[string]string
		expectedStatus int
	}{
		{
			name:           "valid batch",
			body:           models.GenerateCodesRequest{Count: 10},
			headers:        testutil.AdminHeaders(),
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "zero count rejected",
			body:           models.GenerateCodesRequest{Count: 0},
			headers:        testutil.AdminHeaders(),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "oversized batch rejected",
			body:           models.GenerateCodesRequest{Count: 100000},
			headers:        testutil.AdminHeaders(),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing admin secret",
			body:           models.GenerateCodesRequest{Count: 10},
			headers:        nil,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/admin/codes", tt.body, tt.headers)
			w := httptest.NewRecorder()

			handler.Generate(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusCreated {
				var resp models.GenerateCodesResponse
				testutil.AssertJSON(t, w, &resp)
				if len(resp.Codes) != 10 {
					t.Errorf("Expected 10 codes, got %d", len(resp.Codes))
				}
			}
		})
	}
}

func TestListCodesEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestCodeHandler(t, db)

	for _, c := range []string{"AAA111", "AAB222", "BBB333"} {
		testutil.AddTestCode(t, db, c, false)
	}

	req := testutil.MakeRequest("GET", "/admin/codes?page=1&per_page=2", nil, testutil.AdminHeaders())
	w := httptest.NewRecorder()
	handler.List(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.CodePageResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.TotalCount != 3 {
		t.Errorf("Expected total 3, got %d", resp.TotalCount)
	}
	if len(resp.Codes) != 2 {
		t.Errorf("Expected 2 codes on page, got %d", len(resp.Codes))
	}
	if resp.Page != 1 || resp.PerPage != 2 {
		t.Errorf("Unexpected paging echo: page=%d per_page=%d", resp.Page, resp.PerPage)
	}

	// Prefix search is case-insensitive via normalization
	req = testutil.MakeRequest("GET", "/admin/codes?search=aa", nil, testutil.AdminHeaders())
	w = httptest.NewRecorder()
	handler.List(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	testutil.AssertJSON(t, w, &resp)
	if resp.TotalCount != 2 {
		t.Errorf("Expected 2 matches for prefix aa, got %d", resp.TotalCount)
	}

	// Bad paging values fall back to defaults instead of erroring
	req = testutil.MakeRequest("GET", "/admin/codes?page=banana&per_page=-5", nil, testutil.AdminHeaders())
	w = httptest.NewRecorder()
	handler.List(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestClearCodesEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := newTestCodeHandler(t, db)

	testutil.AddTestCode(t, db, "AAA111", false)
	testutil.AddTestCode(t, db, "BBB222", true)

	req := testutil.MakeRequest("DELETE", "/admin/codes", nil, testutil.AdminHeaders())
	w := httptest.NewRecorder()
	handler.ClearAll(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM voter_code`).Scan(&n); err != nil {
		t.Fatalf("Failed to count codes: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected all codes cleared, %d left", n)
	}

	// Unauthorized clear leaves data alone
	testutil.AddTestCode(t, db, "CCC333", false)
	req = testutil.MakeRequest("DELETE", "/admin/codes", nil, nil)
	w = httptest.NewRecorder()
	handler.ClearAll(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	if err := db.QueryRow(`SELECT COUNT(*) FROM voter_code`).Scan(&n); err != nil {
		t.Fatalf("Failed to count codes: %v", err)
	}
	if n != 1 {
		t.Errorf("Unauthorized clear deleted codes, %d left", n)
	}
}
