// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pemira/evote-server/cliparse"
	"github.com/pemira/evote-server/engine"
	"github.com/pemira/evote-server/live"
	"github.com/pemira/evote-server/middleware"
	"github.com/pemira/evote-server/models"
	"github.com/pemira/evote-server/store"
)

// liveHeartbeat keeps idle SSE connections from being reaped by proxies.
const liveHeartbeat = 30 * time.Second

type ResultsHandler struct {
	elections  *store.ElectionStore
	candidates *store.CandidateStore
	ballots    *store.BallotStore
	hub        *live.Hub
	cfg        cliparse.Config
}

func NewResultsHandler(elections *store.ElectionStore, candidates *store.CandidateStore, ballots *store.BallotStore, hub *live.Hub, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{elections: elections, candidates: candidates, ballots: ballots, hub: hub, cfg: cfg}
}

// GetActiveElection handles GET /election
// Returns the election currently open for voting with its candidates.
func (h *ResultsHandler) GetActiveElection(w http.ResponseWriter, r *http.Request) {
	active, err := h.elections.GetActive(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "No active election")
		return
	}
	if err != nil {
		slog.Error("failed to query active election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	candidates, err := h.candidates.ListByElection(r.Context(), active.ID)
	if err != nil {
		slog.Error("failed to list candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionWithCandidates{
		Election:   active,
		Candidates: candidates,
	})
}

// GetResults handles GET /results
// Live tally for the active election, recomputed from the ledger on every
// call.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.computeActiveResults(r)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "No active election")
		return
	}
	if err != nil {
		slog.Error("failed to compute results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetBallotCount handles GET /results/count
// Cheap count-only endpoint for pollers that do not need the full tally.
func (h *ResultsHandler) GetBallotCount(w http.ResponseWriter, r *http.Request) {
	active, err := h.elections.GetActive(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "No active election")
		return
	}
	if err != nil {
		slog.Error("failed to query active election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	count, err := h.ballots.CountByElection(r.Context(), active.ID)
	if err != nil {
		slog.Error("failed to count ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]int{
		"ballot_count": count,
	})
}

// StreamResults handles GET /live/results
// Server-sent events: an initial snapshot, then a fresh snapshot per cast,
// with periodic heartbeats. Clients that cannot hold the stream fall back
// to polling GET /results with identical semantics.
func (h *ResultsHandler) StreamResults(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cancel := h.hub.Subscribe()
	defer cancel()

	if err := h.writeSnapshot(w, r); err != nil {
		// Client may have gone away already; nothing useful to send.
		slog.Warn("failed to write initial results snapshot", "error", err)
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(liveHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, open := <-events:
			if !open {
				return
			}
			if err := h.writeSnapshot(w, r); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h *ResultsHandler) writeSnapshot(w http.ResponseWriter, r *http.Request) error {
	results, err := h.computeActiveResults(r)
	if errors.Is(err, store.ErrNotFound) {
		_, err = fmt.Fprint(w, "event: no_active_election\ndata: {}\n\n")
		return err
	}
	if err != nil {
		return err
	}

	payload, err := json.Marshal(results)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: results\ndata: %s\n\n", payload)
	return err
}

func (h *ResultsHandler) computeActiveResults(r *http.Request) (models.Results, error) {
	active, err := h.elections.GetActive(r.Context())
	if err != nil {
		return models.Results{}, err
	}

	candidates, err := h.candidates.ListByElection(r.Context(), active.ID)
	if err != nil {
		return models.Results{}, err
	}

	ballots, err := h.ballots.ListByElection(r.Context(), active.ID)
	if err != nil {
		return models.Results{}, err
	}

	return engine.ComputeResults(active, candidates, ballots), nil
}
