// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// Open connects to the configured database and returns a validated handle.
// databaseType selects the driver: "postgres" (lib/pq) or "sqlite"
// (modernc.org/sqlite). The caller is responsible for importing the driver.
func Open(databaseType, databaseURL string) (*sql.DB, error) {
	switch databaseType {
	case "postgres":
		conn, err := sql.Open("postgres", databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		return conn, nil
	case "sqlite":
		// Per-connection PRAGMAs: foreign keys for cascade deletes, WAL and
		// busy_timeout to reduce SQLITE_BUSY under concurrent handlers.
		dsn := databaseURL + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		conn, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// SQLite behaves best in a server with a single writer connection.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		return conn, nil
	default:
		return nil, fmt.Errorf("unsupported database type %q (use sqlite or postgres)", databaseType)
	}
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema sticks to the SQL subset both drivers accept: TEXT keys,
// CURRENT_TIMESTAMP defaults, and ON DELETE CASCADE foreign keys. Deleting
// an election cascades to its candidates and ballots.
const schema = `
-- Elections
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    start_date TEXT,
    end_date TEXT,
    is_active BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_election_is_active ON election(is_active);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    vision TEXT,
    mission TEXT,
    photo_url TEXT
);

CREATE INDEX IF NOT EXISTS idx_candidate_election_id ON candidate(election_id);

-- Voter codes
CREATE TABLE IF NOT EXISTS voter_code (
    code TEXT PRIMARY KEY,
    is_used BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_voter_code_is_used ON voter_code(is_used);

-- Ballots
CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    candidate_id TEXT NOT NULL REFERENCES candidate(id) ON DELETE CASCADE,
    voter_code TEXT NOT NULL,
    cast_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_ballot_election_id ON ballot(election_id);
CREATE INDEX IF NOT EXISTS idx_ballot_candidate_id ON ballot(candidate_id);
CREATE INDEX IF NOT EXISTS idx_ballot_voter_code ON ballot(voter_code);
`
