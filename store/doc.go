// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store implements persistence over database/sql.

# Stores

  - VoterCodeStore: one-time voter codes and their used flag. MarkUsed is the
    single correctness-critical operation: a conditional UPDATE whose WHERE
    clause carries the is_used = FALSE precondition, so concurrent consumers
    of the same code cannot both succeed.
  - BallotStore: append-only ballot ledger. Insert and read only; no update
    or delete path. Also answers the reconciliation query (used codes with
    no ballot).
  - ElectionStore: election CRUD plus the single-active-election invariant.
    SetActive runs deactivate-all and activate-target inside one transaction.
  - CandidateStore: candidate CRUD, owned by one election.

# Errors

Lookups return ErrNotFound for missing rows. MarkUsed returns ErrAlreadyUsed
when the precondition fails. Everything else is wrapped with context via
fmt.Errorf("...: %w", err).

All statements use $N placeholders, which both lib/pq and modernc.org/sqlite
accept, so the same store code runs against either configured driver.
*/
package store
