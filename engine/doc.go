// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package engine holds the vote-integrity core: the eligibility and casting
state machine, the result aggregator, and the reconciliation sweep.

# Casting

Engine.Cast is the only writer of ballots and the only consumer of voter
codes. The one-ballot-per-code invariant rests on a single conditional
update (claim the code while it is still unused); the ballot append and a
compensating release form a best-effort saga around it:

	eng := engine.New(codeStore, ballotStore)
	ballot, err := eng.Cast(ctx, electionID, candidateID, code)

Error outcomes:

  - ErrInvalidCredential: code does not exist
  - ErrCredentialConsumed: claim lost to a concurrent cast, nothing written
  - ErrCastFailed: ballot write failed, code released, cast may be retried
  - ErrFatalInconsistency: ballot write and release both failed; logged with
    event=fatal_inconsistency for operator attention

Engine.Login only checks the code; it deliberately does not reserve it. The
race this opens between two sessions holding the same code is closed by the
conditional claim at cast time.

# Aggregation

ComputeResults is a pure function over a ledger snapshot: counts,
percentages, descending order, and the winner set (all candidates at the
maximum count; more than one is a tie).

# Reconciliation

Reconciler.Sweep scans for used codes without ballots, the signature a
failed compensation leaves behind, and logs each finding. Scheduling is the
caller's concern (main wires it to a cron entry).
*/
package engine
