// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the evote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(dbConn, hub, cfg)

# Endpoints

Health:

	GET /health

Voter (public):

	POST /voter/login - Check a voter code without consuming it
	POST /voter/cast  - Consume a code and record a ballot

Results (public):

	GET /election      - Active election with candidates
	GET /results       - Tally for the active election
	GET /results/count - Ballot count for the active election
	GET /live/results  - Server-sent events result stream

Admin (requires X-Admin-Code):

	POST   /admin/login
	POST   /admin/elections                - Create election
	GET    /admin/elections                - List elections
	PUT    /admin/elections/{id}           - Update election
	DELETE /admin/elections/{id}           - Delete election
	POST   /admin/elections/{id}/activate  - Make the election the active one
	POST   /admin/elections/{id}/candidates - Add candidate
	PUT    /admin/candidates/{id}          - Update candidate
	DELETE /admin/candidates/{id}          - Delete candidate
	POST   /admin/candidates/photo         - Upload candidate photo
	POST   /admin/codes                    - Generate voter codes
	GET    /admin/codes                    - List codes (paginated, searchable)
	DELETE /admin/codes                    - Clear all codes
	GET    /admin/stats                    - Aggregate counts

Static:

	GET /assets/ - Uploaded candidate photos

# Handler Initialization

The router builds stores on the shared database connection, wires the
voting engine, and creates handler instances with dependency injection:

	voterHandler := handlers.NewVoterHandler(eng, elections, candidates, hub, cfg)

The live hub is shared with main so the reconciler and cast path publish
into the same stream the SSE endpoint serves.

The SSE route is registered without the logging wrapper; a stream that
stays open for minutes would log a misleading duration.
*/
package router
