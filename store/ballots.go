// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pemira/evote-server/models"
)

// BallotStore is the append-only ledger of cast votes. Rows are inserted by
// the casting engine and never updated or deleted afterwards; election
// deletion cascades at the schema level.
type BallotStore struct {
	db *sql.DB
}

func NewBallotStore(db *sql.DB) *BallotStore {
	return &BallotStore{db: db}
}

// Record appends one ballot and returns it.
func (s *BallotStore) Record(ctx context.Context, electionID, candidateID, voterCode string) (models.Ballot, error) {
	ballot := models.Ballot{
		ID:          uuid.NewString(),
		ElectionID:  electionID,
		CandidateID: candidateID,
		VoterCode:   voterCode,
		CastAt:      time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ballot (id, election_id, candidate_id, voter_code, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ballot.ID, ballot.ElectionID, ballot.CandidateID, ballot.VoterCode, ballot.CastAt)

	if err != nil {
		return models.Ballot{}, fmt.Errorf("failed to record ballot: %w", err)
	}
	return ballot, nil
}

// ListByElection returns all ballots for an election, unordered.
func (s *BallotStore) ListByElection(ctx context.Context, electionID string) ([]models.Ballot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, election_id, candidate_id, voter_code, cast_at
		FROM ballot
		WHERE election_id = $1
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ballots: %w", err)
	}
	defer rows.Close()

	ballots := []models.Ballot{}
	for rows.Next() {
		var b models.Ballot
		if err := rows.Scan(&b.ID, &b.ElectionID, &b.CandidateID, &b.VoterCode, &b.CastAt); err != nil {
			return nil, fmt.Errorf("failed to scan ballot: %w", err)
		}
		ballots = append(ballots, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ballots: %w", err)
	}
	return ballots, nil
}

// CountByElection returns the number of ballots cast in an election.
func (s *BallotStore) CountByElection(ctx context.Context, electionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ballot WHERE election_id = $1
	`, electionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}
	return n, nil
}

// Count returns the total number of ballots across all elections.
func (s *BallotStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ballot`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}
	return n, nil
}

// CodesWithoutBallots returns used voter codes that have no ballot. A
// non-empty result means a compensation failed somewhere: the code was
// consumed but the vote never landed.
func (s *BallotStore) CodesWithoutBallots(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT vc.code
		FROM voter_code vc
		WHERE vc.is_used = TRUE
		  AND NOT EXISTS (SELECT 1 FROM ballot b WHERE b.voter_code = vc.code)
		ORDER BY vc.code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query orphaned codes: %w", err)
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan orphaned code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orphaned codes: %w", err)
	}
	return codes, nil
}
