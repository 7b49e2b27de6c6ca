// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pemira/evote-server/models"
	"github.com/pemira/evote-server/store"
)

// CredentialStore is the slice of the voter code store the engine needs.
type CredentialStore interface {
	Lookup(ctx context.Context, code string) (models.VoterCode, error)
	MarkUsed(ctx context.Context, code string) error
	MarkUnused(ctx context.Context, code string) error
}

// BallotLedger is the slice of the ballot store the engine needs.
type BallotLedger interface {
	Record(ctx context.Context, electionID, candidateID, voterCode string) (models.Ballot, error)
}

// Engine coordinates credential validation and the atomic claim-and-record
// transition of casting a vote. Per credential the states are
//
//	UNSEEN → UNUSED → CLAIMED → COMMITTED
//
// with CLAIMED → UNUSED as the rollback edge when the ballot write fails.
// COMMITTED is terminal.
type Engine struct {
	codes   CredentialStore
	ballots BallotLedger
}

func New(codes CredentialStore, ballots BallotLedger) *Engine {
	return &Engine{codes: codes, ballots: ballots}
}

// Login checks that a presented code exists and is unspent. It does not
// reserve the code: two logins with the same unspent code both succeed, and
// the race is resolved at Cast by the conditional claim. Returns
// ErrInvalidCredential or ErrCredentialUsed.
func (e *Engine) Login(ctx context.Context, code string) error {
	if code == "" {
		return ErrInvalidCredential
	}

	vc, err := e.codes.Lookup(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidCredential
	}
	if err != nil {
		return fmt.Errorf("credential lookup: %w", err)
	}
	if vc.IsUsed {
		return ErrCredentialUsed
	}
	return nil
}

// Cast performs the claim-and-record transition:
//
//  1. Conditionally mark the code used. Losing the condition means another
//     cast already committed with this code; nothing is written and
//     ErrCredentialConsumed is returned.
//  2. Append the ballot.
//  3. If the append fails, release the code again (CLAIMED → UNUSED) and
//     return ErrCastFailed. If the release itself fails, the code is stuck
//     used without a ballot; that is ErrFatalInconsistency and is logged
//     for operator reconciliation.
//
// The two writes are independent, so this is a saga, not a transaction: the
// conditional claim in step 1 is the only atomicity the scheme requires.
func (e *Engine) Cast(ctx context.Context, electionID, candidateID, code string) (models.Ballot, error) {
	if code == "" {
		return models.Ballot{}, ErrInvalidCredential
	}

	err := e.codes.MarkUsed(ctx, code)
	switch {
	case errors.Is(err, store.ErrAlreadyUsed):
		return models.Ballot{}, ErrCredentialConsumed
	case errors.Is(err, store.ErrNotFound):
		return models.Ballot{}, ErrInvalidCredential
	case err != nil:
		// Nothing committed; the whole cast is safe to retry from the top.
		return models.Ballot{}, fmt.Errorf("claim credential: %w", err)
	}

	ballot, err := e.ballots.Record(ctx, electionID, candidateID, code)
	if err == nil {
		return ballot, nil
	}

	if compErr := e.codes.MarkUnused(ctx, code); compErr != nil {
		slog.Error("compensation failed, voter code consumed without ballot",
			"event", "fatal_inconsistency",
			"code", code,
			"election_id", electionID,
			"record_error", err,
			"rollback_error", compErr,
		)
		return models.Ballot{}, fmt.Errorf("%w (code %s): record: %v, rollback: %v",
			ErrFatalInconsistency, code, err, compErr)
	}

	slog.Warn("ballot write failed, voter code released",
		"event", "cast_rolled_back",
		"election_id", electionID,
		"error", err,
	)
	return models.Ballot{}, fmt.Errorf("%w: %v", ErrCastFailed, err)
}
