// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/pemira/evote-server/auth"
	"github.com/pemira/evote-server/cliparse"
	"github.com/pemira/evote-server/middleware"
	"github.com/pemira/evote-server/models"
	"github.com/pemira/evote-server/store"
)

const (
	maxGeneratePerRequest = 1000
	defaultCodesPerPage   = 50
	maxCodesPerPage       = 200
)

type CodeHandler struct {
	codes *store.VoterCodeStore
	cfg   cliparse.Config
}

func NewCodeHandler(codes *store.VoterCodeStore, cfg cliparse.Config) *CodeHandler {
	return &CodeHandler{codes: codes, cfg: cfg}
}

func (h *CodeHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	code := r.Header.Get("X-Admin-Code")
	if err := auth.ValidateAdminCode(code, h.cfg.AdminCode); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin code")
		return false
	}
	return true
}

// Generate handles POST /admin/codes
func (h *CodeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req models.GenerateCodesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Count < 1 || req.Count > maxGeneratePerRequest {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			"count must be between 1 and "+strconv.Itoa(maxGeneratePerRequest))
		return
	}

	codes, err := h.codes.Generate(r.Context(), req.Count)
	if err != nil {
		slog.Error("failed to generate voter codes", "error", err, "count", req.Count)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate codes")
		return
	}

	slog.Info("voter codes generated", "count", len(codes))

	middleware.JSONResponse(w, http.StatusCreated, models.GenerateCodesResponse{Codes: codes})
}

// List handles GET /admin/codes?page=1&per_page=50&search=AB
func (h *CodeHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := queryInt(r, "per_page", defaultCodesPerPage)
	if perPage < 1 {
		perPage = defaultCodesPerPage
	}
	if perPage > maxCodesPerPage {
		perPage = maxCodesPerPage
	}
	search := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("search")))

	codes, total, err := h.codes.List(r.Context(), page, perPage, search)
	if err != nil {
		slog.Error("failed to list voter codes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CodePageResponse{
		Codes:      codes,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
	})
}

// ClearAll handles DELETE /admin/codes
// Removes every voter code, used or not. Ballots already recorded keep
// their code reference; the ledger is append-only from the voter side.
func (h *CodeHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	if err := h.codes.ClearAll(r.Context()); err != nil {
		slog.Error("failed to clear voter codes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to clear codes")
		return
	}

	slog.Info("all voter codes cleared")

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "All codes cleared",
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
