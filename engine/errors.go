// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import "errors"

var (
	// ErrInvalidCredential is returned when the presented code does not exist.
	ErrInvalidCredential = errors.New("invalid voter code")

	// ErrCredentialUsed is returned at login when the code is already spent.
	ErrCredentialUsed = errors.New("voter code already used")

	// ErrCredentialConsumed is returned at cast time when the conditional
	// claim fails: another cast with the same code committed first. No ballot
	// is written.
	ErrCredentialConsumed = errors.New("voter code consumed by another cast")

	// ErrCastFailed is returned when the ballot write failed after the code
	// was claimed and the compensating rollback succeeded. The code is back
	// to unused; the caller may retry the whole cast.
	ErrCastFailed = errors.New("cast failed, voter code released")

	// ErrFatalInconsistency is returned when both the ballot write and the
	// compensating rollback failed: the code is marked used with no ballot
	// recorded. Requires operator reconciliation, never automatic retry.
	ErrFatalInconsistency = errors.New("fatal inconsistency: voter code consumed without ballot")
)
