// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pemira/evote-server/engine"
	"github.com/pemira/evote-server/live"
	"github.com/pemira/evote-server/models"
	"github.com/pemira/evote-server/store"
	"github.com/pemira/evote-server/testutil"
)

func newTestVoterHandler(t *testing.T, db *sql.DB) (*VoterHandler, *live.Hub) {
	t.Helper()

	cfg := testutil.GetTestConfig(t)
	codes := store.NewVoterCodeStore(db)
	ballots := store.NewBallotStore(db)
	elections := store.NewElectionStore(db)
	candidates := store.NewCandidateStore(db)
	hub := live.NewHub()

	return NewVoterHandler(engine.New(codes, ballots), elections, candidates, hub, cfg), hub
}

func TestVoterLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler, _ := newTestVoterHandler(t, db)

	testutil.AddTestCode(t, db, "FRESH1", false)
	testutil.AddTestCode(t, db, "SPENT1", true)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "valid code",
			body:           models.VoterLoginRequest{Code: "FRESH1"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "code is normalized before lookup",
			body:           models.VoterLoginRequest{Code: "  fresh1 "},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "used code",
			body:           models.VoterLoginRequest{Code: "SPENT1"},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unknown code",
			body:           models.VoterLoginRequest{Code: "NOPE99"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing code",
			body:           models.VoterLoginRequest{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/voter/login", tt.body, nil)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	// Login must not consume the code
	var used bool
	if err := db.QueryRow(`SELECT is_used FROM voter_code WHERE code = 'FRESH1'`).Scan(&used); err != nil {
		t.Fatalf("Failed to query code: %v", err)
	}
	if used {
		t.Error("Login consumed the voter code")
	}
}

func TestCastVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler, hub := newTestVoterHandler(t, db)

	electionID := testutil.CreateTestElection(t, db, "Election", true)
	otherID := testutil.CreateTestElection(t, db, "Dormant", false)
	candidateID := testutil.AddTestCandidate(t, db, electionID, "Alice")
	strayID := testutil.AddTestCandidate(t, db, otherID, "Mallory")

	testutil.AddTestCode(t, db, "FRESH1", false)
	testutil.AddTestCode(t, db, "FRESH2", false)
	testutil.AddTestCode(t, db, "SPENT1", true)

	events, cancelSub := hub.Subscribe()
	defer cancelSub()

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name: "successful cast",
			body: models.CastVoteRequest{
				Code:        "fresh1",
				ElectionID:  electionID,
				CandidateID: candidateID,
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "code cannot vote twice",
			body: models.CastVoteRequest{
				Code:        "FRESH1",
				ElectionID:  electionID,
				CandidateID: candidateID,
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "already used code",
			body: models.CastVoteRequest{
				Code:        "SPENT1",
				ElectionID:  electionID,
				CandidateID: candidateID,
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "unknown code",
			body: models.CastVoteRequest{
				Code:        "NOPE99",
				ElectionID:  electionID,
				CandidateID: candidateID,
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "inactive election rejected",
			body: models.CastVoteRequest{
				Code:        "FRESH2",
				ElectionID:  otherID,
				CandidateID: strayID,
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "candidate from another election rejected",
			body: models.CastVoteRequest{
				Code:        "FRESH2",
				ElectionID:  electionID,
				CandidateID: strayID,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown candidate rejected",
			body: models.CastVoteRequest{
				Code:        "FRESH2",
				ElectionID:  electionID,
				CandidateID: "missing-id",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing fields rejected",
			body: models.CastVoteRequest{
				Code: "FRESH2",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/voter/cast", tt.body, nil)
			w := httptest.NewRecorder()

			handler.Cast(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	// Exactly one ballot landed and exactly one event was published
	var ballotCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ballot`).Scan(&ballotCount); err != nil {
		t.Fatalf("Failed to count ballots: %v", err)
	}
	if ballotCount != 1 {
		t.Errorf("Expected 1 ballot, got %d", ballotCount)
	}

	select {
	case ev := <-events:
		if ev.Type != live.EventBallotCast || ev.ElectionID != electionID {
			t.Errorf("Unexpected event: %+v", ev)
		}
	default:
		t.Error("Expected a ballot_cast event on the hub")
	}
	select {
	case ev := <-events:
		t.Errorf("Unexpected extra event: %+v", ev)
	default:
	}

	// Rejected casts must not consume codes
	var used bool
	if err := db.QueryRow(`SELECT is_used FROM voter_code WHERE code = 'FRESH2'`).Scan(&used); err != nil {
		t.Fatalf("Failed to query code: %v", err)
	}
	if used {
		t.Error("Rejected casts consumed FRESH2")
	}
}

func TestCastWithNoActiveElection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler, _ := newTestVoterHandler(t, db)

	electionID := testutil.CreateTestElection(t, db, "Dormant", false)
	candidateID := testutil.AddTestCandidate(t, db, electionID, "Alice")
	testutil.AddTestCode(t, db, "FRESH1", false)

	req := testutil.MakeRequest("POST", "/voter/cast", models.CastVoteRequest{
		Code:        "FRESH1",
		ElectionID:  electionID,
		CandidateID: candidateID,
	}, nil)
	w := httptest.NewRecorder()

	handler.Cast(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)
}
