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

// ElectionStore persists election definitions and maintains the
// single-active-election invariant.
type ElectionStore struct {
	db *sql.DB
}

func NewElectionStore(db *sql.DB) *ElectionStore {
	return &ElectionStore{db: db}
}

// Create inserts a new election, inactive by default.
func (s *ElectionStore) Create(ctx context.Context, req models.ElectionRequest) (models.Election, error) {
	e := models.Election{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsActive:    false,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO election (id, title, description, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, FALSE)
	`, e.ID, e.Title, e.Description, e.StartDate, e.EndDate)

	if err != nil {
		return models.Election{}, fmt.Errorf("failed to insert election: %w", err)
	}
	return e, nil
}

// Update rewrites an election's descriptive fields. The active flag is only
// changed through SetActive.
func (s *ElectionStore) Update(ctx context.Context, id string, req models.ElectionRequest) (models.Election, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE election
		SET title = $1, description = $2, start_date = $3, end_date = $4
		WHERE id = $5
	`, req.Title, req.Description, req.StartDate, req.EndDate, id)
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to update election: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return models.Election{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes an election. Candidates and ballots cascade at the schema
// level.
func (s *ElectionStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM election WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete election: %w", err)
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

// Get returns one election by id.
func (s *ElectionStore) Get(ctx context.Context, id string) (models.Election, error) {
	var e models.Election
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, start_date, end_date, is_active
		FROM election WHERE id = $1
	`, id).Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate, &e.IsActive)

	if err == sql.ErrNoRows {
		return models.Election{}, ErrNotFound
	}
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to query election: %w", err)
	}
	return e, nil
}

// ListAll returns every election, active first, then by title.
func (s *ElectionStore) ListAll(ctx context.Context) ([]models.Election, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, start_date, end_date, is_active
		FROM election
		ORDER BY is_active DESC, title
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list elections: %w", err)
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		var e models.Election
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate, &e.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		elections = append(elections, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate elections: %w", err)
	}
	return elections, nil
}

// SetActive makes the target election the only active one. Deactivate-all
// and activate-target run in one transaction, so readers never observe a
// state with zero active elections after a crash mid-switch: either the
// commit lands (target active) or it does not (previous state intact).
func (s *ElectionStore) SetActive(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE election SET is_active = FALSE WHERE is_active = TRUE
	`); err != nil {
		return fmt.Errorf("failed to deactivate elections: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE election SET is_active = TRUE WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to activate election: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		// Unknown target: roll back so the previously active election stays
		// active.
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit activation: %w", err)
	}
	return nil
}

// GetActive returns the currently active election, or ErrNotFound.
func (s *ElectionStore) GetActive(ctx context.Context) (models.Election, error) {
	var e models.Election
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, start_date, end_date, is_active
		FROM election WHERE is_active = TRUE
	`).Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate, &e.IsActive)

	if err == sql.ErrNoRows {
		return models.Election{}, ErrNotFound
	}
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to query active election: %w", err)
	}
	return e, nil
}

// Count returns the number of elections.
func (s *ElectionStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM election`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count elections: %w", err)
	}
	return n, nil
}
