// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the evote API server.

evote runs a single-election vote with one-time voter codes: each code
admits exactly one ballot, results aggregate live, and ties surface as
co-winners.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=./evote.db ADMIN_CODE=... go run main.go

Or with flags:

	go run main.go -p 4680 -t sqlite -d ./evote.db -admin-code ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_CODE (-admin-code): Admin shared secret

Optional settings:

  - PORT (-p): Server port (default: 4680)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - ASSETS_DIR (-assets): Candidate photo directory (default: ./assets)
  - RECONCILE_SCHEDULE (-reconcile): Consistency sweep cron spec (default: @every 5m)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - engine: Code claim, ballot record, rollback, result aggregation
  - store: SQL access for codes, ballots, elections, candidates
  - handlers: HTTP request handlers (voter, results, admin, codes)
  - router: Route definitions using Go 1.22+ routing
  - live: In-process pub/sub feeding the SSE result stream
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Code generation and admin secret validation
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
