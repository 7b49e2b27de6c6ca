// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/pemira/evote-server/models"
)

// CandidateStore persists candidate profiles. Each candidate is owned by
// exactly one election.
type CandidateStore struct {
	db *sql.DB
}

func NewCandidateStore(db *sql.DB) *CandidateStore {
	return &CandidateStore{db: db}
}

// Create inserts a candidate under the given election.
func (s *CandidateStore) Create(ctx context.Context, electionID string, req models.CandidateRequest) (models.Candidate, error) {
	// Reject unknown elections up front; SQLite reports FK violations with a
	// driver-specific message that is awkward to map to a clean error.
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM election WHERE id = $1)
	`, electionID).Scan(&exists)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to check election: %w", err)
	}
	if !exists {
		return models.Candidate{}, ErrNotFound
	}

	c := models.Candidate{
		ID:         uuid.NewString(),
		ElectionID: electionID,
		Name:       req.Name,
		Vision:     req.Vision,
		Mission:    req.Mission,
		PhotoURL:   req.PhotoURL,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO candidate (id, election_id, name, vision, mission, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.ElectionID, c.Name, c.Vision, c.Mission, c.PhotoURL)

	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to insert candidate: %w", err)
	}
	return c, nil
}

// Update rewrites a candidate's profile fields. Ownership never moves to a
// different election.
func (s *CandidateStore) Update(ctx context.Context, id string, req models.CandidateRequest) (models.Candidate, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE candidate
		SET name = $1, vision = $2, mission = $3, photo_url = $4
		WHERE id = $5
	`, req.Name, req.Vision, req.Mission, req.PhotoURL, id)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to update candidate: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return models.Candidate{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes a candidate and, via schema cascade, its ballots.
func (s *CandidateStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM candidate WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns one candidate by id.
func (s *CandidateStore) Get(ctx context.Context, id string) (models.Candidate, error) {
	var c models.Candidate
	err := s.db.QueryRowContext(ctx, `
		SELECT id, election_id, name, vision, mission, photo_url
		FROM candidate WHERE id = $1
	`, id).Scan(&c.ID, &c.ElectionID, &c.Name, &c.Vision, &c.Mission, &c.PhotoURL)

	if err == sql.ErrNoRows {
		return models.Candidate{}, ErrNotFound
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to query candidate: %w", err)
	}
	return c, nil
}

// ListByElection returns all candidates of an election ordered by name.
func (s *CandidateStore) ListByElection(ctx context.Context, electionID string) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, election_id, name, vision, mission, photo_url
		FROM candidate
		WHERE election_id = $1
		ORDER BY name
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.Name, &c.Vision, &c.Mission, &c.PhotoURL); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return candidates, nil
}

// Count returns the number of candidates across all elections.
func (s *CandidateStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidate`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count candidates: %w", err)
	}
	return n, nil
}
