// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pemira/evote-server/auth"
	"github.com/pemira/evote-server/cliparse"
	"github.com/pemira/evote-server/middleware"
	"github.com/pemira/evote-server/models"
	"github.com/pemira/evote-server/store"
)

// maxPhotoBytes caps candidate photo uploads.
const maxPhotoBytes = 5 << 20

type AdminHandler struct {
	elections  *store.ElectionStore
	candidates *store.CandidateStore
	codes      *store.VoterCodeStore
	ballots    *store.BallotStore
	cfg        cliparse.Config
}

func NewAdminHandler(elections *store.ElectionStore, candidates *store.CandidateStore, codes *store.VoterCodeStore, ballots *store.BallotStore, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{elections: elections, candidates: candidates, codes: codes, ballots: ballots, cfg: cfg}
}

// requireAdmin validates the X-Admin-Code header. Static shared-secret
// compare; the admin surface is trusted-operator territory, not a hardened
// boundary.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	code := r.Header.Get("X-Admin-Code")
	if err := auth.ValidateAdminCode(code, h.cfg.AdminCode); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin code")
		return false
	}
	return true
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := auth.ValidateAdminCode(req.Code, h.cfg.AdminCode); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin code")
		return
	}

	slog.Info("admin logged in")

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Login successful",
	})
}

// CreateElection handles POST /admin/elections
func (h *AdminHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req models.ElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	election, err := h.elections.Create(r.Context(), req)
	if err != nil {
		slog.Error("failed to create election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	slog.Info("election created", "election_id", election.ID, "title", election.Title)

	middleware.JSONResponse(w, http.StatusCreated, election)
}

// ListElections handles GET /admin/elections
func (h *AdminHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	elections, err := h.elections.ListAll(r.Context())
	if err != nil {
		slog.Error("failed to list elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, elections)
}

// UpdateElection handles PUT /admin/elections/{id}
func (h *AdminHandler) UpdateElection(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	var req models.ElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	election, err := h.elections.Update(r.Context(), id, req)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to update election", "error", err, "election_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update election")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, election)
}

// DeleteElection handles DELETE /admin/elections/{id}
// Candidates and ballots cascade with the election.
func (h *AdminHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	err := h.elections.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete election", "error", err, "election_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete election")
		return
	}

	slog.Info("election deleted", "election_id", id)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Election deleted",
	})
}

// ActivateElection handles POST /admin/elections/{id}/activate
func (h *AdminHandler) ActivateElection(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	err := h.elections.SetActive(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to activate election", "error", err, "election_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to activate election")
		return
	}

	slog.Info("election activated", "election_id", id)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Election activated",
	})
}

// CreateCandidate handles POST /admin/elections/{id}/candidates
func (h *AdminHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	var req models.CandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	candidate, err := h.candidates.Create(r.Context(), electionID, req)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to create candidate", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create candidate")
		return
	}

	slog.Info("candidate created", "candidate_id", candidate.ID, "election_id", electionID)

	middleware.JSONResponse(w, http.StatusCreated, candidate)
}

// UpdateCandidate handles PUT /admin/candidates/{id}
func (h *AdminHandler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate id is required")
		return
	}

	var req models.CandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	candidate, err := h.candidates.Update(r.Context(), id, req)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}
	if err != nil {
		slog.Error("failed to update candidate", "error", err, "candidate_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update candidate")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidate)
}

// DeleteCandidate handles DELETE /admin/candidates/{id}
func (h *AdminHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate id is required")
		return
	}

	err := h.candidates.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete candidate", "error", err, "candidate_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete candidate")
		return
	}

	slog.Info("candidate deleted", "candidate_id", id)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Candidate deleted",
	})
}

// GetStats handles GET /admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	ctx := r.Context()
	var stats models.StatsResponse
	var err error

	if stats.Elections, err = h.elections.Count(ctx); err == nil {
		if stats.Candidates, err = h.candidates.Count(ctx); err == nil {
			if stats.Codes, err = h.codes.Count(ctx); err == nil {
				if stats.UsedCodes, err = h.codes.CountUsed(ctx); err == nil {
					stats.Ballots, err = h.ballots.Count(ctx)
				}
			}
		}
	}
	if err != nil {
		slog.Error("failed to gather stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}

// UploadPhoto handles POST /admin/candidates/photo
// Stores the file under the assets directory and returns its public URL.
// File storage is outside the voting core; nothing here touches the ledger.
func (h *AdminHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()

	name := sanitizeFileName(header.Filename)
	fileName := fmt.Sprintf("photo_%d_%s", time.Now().UnixMilli(), name)
	path := filepath.Join(h.cfg.AssetsDir, fileName)

	dst, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create photo file", "error", err, "path", path)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store photo")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		slog.Error("failed to write photo file", "error", err, "path", path)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store photo")
		return
	}

	slog.Info("candidate photo uploaded", "file", fileName)

	middleware.JSONResponse(w, http.StatusCreated, models.PhotoUploadResponse{
		PhotoURL: "/assets/" + fileName,
	})
}

// sanitizeFileName keeps the base name and replaces anything outside a safe
// character set, so an upload can never escape the assets directory.
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}
