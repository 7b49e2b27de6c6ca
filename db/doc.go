// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation.

Open selects the driver from the configured database type (sqlite or
postgres) and applies SQLite connection pragmas. CreateSchema is idempotent
and runs at startup.

The schema intentionally carries no UNIQUE constraint tying a ballot to a
voter code; the one-ballot-per-code invariant is enforced by the casting
engine's conditional update on voter_code.is_used (see package engine).
*/
package db
