// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pemira/evote-server/cliparse"
	"github.com/pemira/evote-server/engine"
	"github.com/pemira/evote-server/live"
	"github.com/pemira/evote-server/middleware"
	"github.com/pemira/evote-server/models"
	"github.com/pemira/evote-server/store"
)

type VoterHandler struct {
	engine     *engine.Engine
	elections  *store.ElectionStore
	candidates *store.CandidateStore
	hub        *live.Hub
	cfg        cliparse.Config
}

func NewVoterHandler(eng *engine.Engine, elections *store.ElectionStore, candidates *store.CandidateStore, hub *live.Hub, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{engine: eng, elections: elections, candidates: candidates, hub: hub, cfg: cfg}
}

// Login handles POST /voter/login
// Admits the bearer of an unspent code into a voting session. The code is
// not reserved here; eligibility is finally enforced at cast time.
func (h *VoterHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.VoterLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	code := normalizeCode(req.Code)
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "code is required")
		return
	}

	err := h.engine.Login(r.Context(), code)
	switch {
	case errors.Is(err, engine.ErrInvalidCredential):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter code")
		return
	case errors.Is(err, engine.ErrCredentialUsed):
		middleware.ErrorResponse(w, http.StatusConflict, "Voter code already used")
		return
	case err != nil:
		slog.Error("voter login failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("voter logged in")

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Login successful",
	})
}

// Cast handles POST /voter/cast
func (h *VoterHandler) Cast(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	code := normalizeCode(req.Code)
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "code is required")
		return
	}
	if req.ElectionID == "" || req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id and candidate_id are required")
		return
	}

	// Votes only land in the active election.
	active, err := h.elections.GetActive(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusConflict, "No election is open for voting")
		return
	}
	if err != nil {
		slog.Error("failed to query active election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if active.ID != req.ElectionID {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not open for voting")
		return
	}

	// The candidate must belong to the active election.
	candidate, err := h.candidates.Get(r.Context(), req.CandidateID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown candidate")
		return
	}
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if candidate.ElectionID != active.ID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Candidate does not belong to the active election")
		return
	}

	ballot, err := h.engine.Cast(r.Context(), active.ID, req.CandidateID, code)
	switch {
	case errors.Is(err, engine.ErrInvalidCredential):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter code")
		return
	case errors.Is(err, engine.ErrCredentialConsumed):
		middleware.ErrorResponse(w, http.StatusConflict, "Voter code has already been used to vote")
		return
	case errors.Is(err, engine.ErrCastFailed):
		// Credential was released; the voter may resubmit.
		middleware.ErrorResponse(w, http.StatusBadGateway, "Vote could not be saved, please try again")
		return
	case errors.Is(err, engine.ErrFatalInconsistency):
		// Deliberately not a generic message: this state needs an operator.
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Vote could not be saved and the voter code could not be released; contact the administrator")
		return
	case err != nil:
		slog.Error("cast failed before any write", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.hub.Publish(live.Event{Type: live.EventBallotCast, ElectionID: active.ID})

	slog.Info("ballot cast", "election_id", active.ID, "ballot_id", ballot.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		BallotID: ballot.ID,
		CastAt:   ballot.CastAt,
		Message:  "Vote recorded",
	})
}

// normalizeCode uppercases and trims a presented voter code so lookups are
// insensitive to how the voter typed it.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
