// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the evote API.

# Handler Types

Each handler is a struct with store, engine, and config dependencies:

  - VoterHandler: Code login and ballot casting
  - ResultsHandler: Active election info, result tallies, live stream
  - AdminHandler: Election and candidate management, stats, photo upload
  - CodeHandler: Voter code generation, listing, and clearing

Handlers are created via constructor functions:

	voterHandler := handlers.NewVoterHandler(eng, elections, candidates, hub, cfg)

# Voting Flow

Voters hold a one-time six character code:

	POST /voter/login → Login (checks the code without consuming it)
	POST /voter/cast  → Cast (consumes the code and records the ballot)

Cast delegates to engine.Cast, which claims the code atomically and rolls
the claim back if the ballot insert fails. The handler maps engine errors
to HTTP statuses:

	ErrInvalidCredential   → 401
	ErrCredentialConsumed  → 409
	ErrCastFailed          → 502 (retryable)
	ErrFatalInconsistency  → 500 (operator attention required)

# Results

	GET /election       → Active election with candidates
	GET /results        → Tally with winners and tie flag
	GET /results/count  → Ballot count only
	GET /live/results   → Server-sent events stream of tallies

# Admin Operations

Admin endpoints require the X-Admin-Code header, compared in constant
time against the configured secret. They cover election CRUD and
activation, candidate CRUD, voter code management, stats, and candidate
photo upload.
*/
package handlers
