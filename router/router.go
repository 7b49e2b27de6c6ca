// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/pemira/evote-server/cliparse"
	"github.com/pemira/evote-server/engine"
	"github.com/pemira/evote-server/handlers"
	"github.com/pemira/evote-server/live"
	"github.com/pemira/evote-server/middleware"
	"github.com/pemira/evote-server/store"
)

func NewRouter(dbConn *sql.DB, hub *live.Hub, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize stores
	codes := store.NewVoterCodeStore(dbConn)
	ballots := store.NewBallotStore(dbConn)
	elections := store.NewElectionStore(dbConn)
	candidates := store.NewCandidateStore(dbConn)

	eng := engine.New(codes, ballots)

	// Initialize handlers
	voterHandler := handlers.NewVoterHandler(eng, elections, candidates, hub, cfg)
	resultsHandler := handlers.NewResultsHandler(elections, candidates, ballots, hub, cfg)
	adminHandler := handlers.NewAdminHandler(elections, candidates, codes, ballots, cfg)
	codeHandler := handlers.NewCodeHandler(codes, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voter operations (public)
	mux.HandleFunc("POST /voter/login", middleware.WithLogging(voterHandler.Login))
	mux.HandleFunc("POST /voter/cast", middleware.WithLogging(voterHandler.Cast))

	// Results retrieval (public)
	mux.HandleFunc("GET /election", middleware.WithLogging(resultsHandler.GetActiveElection))
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /results/count", middleware.WithLogging(resultsHandler.GetBallotCount))
	mux.HandleFunc("GET /live/results", resultsHandler.StreamResults)

	// Admin authentication
	mux.HandleFunc("POST /admin/login", middleware.WithLogging(adminHandler.Login))

	// Election management (admin, requires X-Admin-Code)
	mux.HandleFunc("POST /admin/elections", middleware.WithLogging(adminHandler.CreateElection))
	mux.HandleFunc("GET /admin/elections", middleware.WithLogging(adminHandler.ListElections))
	mux.HandleFunc("PUT /admin/elections/{id}", middleware.WithLogging(adminHandler.UpdateElection))
	mux.HandleFunc("DELETE /admin/elections/{id}", middleware.WithLogging(adminHandler.DeleteElection))
	mux.HandleFunc("POST /admin/elections/{id}/activate", middleware.WithLogging(adminHandler.ActivateElection))

	// Candidate management (admin)
	mux.HandleFunc("POST /admin/elections/{id}/candidates", middleware.WithLogging(adminHandler.CreateCandidate))
	mux.HandleFunc("PUT /admin/candidates/{id}", middleware.WithLogging(adminHandler.UpdateCandidate))
	mux.HandleFunc("DELETE /admin/candidates/{id}", middleware.WithLogging(adminHandler.DeleteCandidate))
	mux.HandleFunc("POST /admin/candidates/photo", middleware.WithLogging(adminHandler.UploadPhoto))

	// Voter code management (admin)
	mux.HandleFunc("POST /admin/codes", middleware.WithLogging(codeHandler.Generate))
	mux.HandleFunc("GET /admin/codes", middleware.WithLogging(codeHandler.List))
	mux.HandleFunc("DELETE /admin/codes", middleware.WithLogging(codeHandler.ClearAll))

	// Stats (admin)
	mux.HandleFunc("GET /admin/stats", middleware.WithLogging(adminHandler.GetStats))

	// Uploaded candidate photos
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.AssetsDir))))

	// Root endpoint. The {$} anchor matches only "/" itself, so unrouted
	// paths fall through to the mux's own 404/405 handling.
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("evote API v1"))
	})

	return mux
}
