// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pemira/evote-server/auth"
	"github.com/pemira/evote-server/models"
)

// maxGenerateAttempts bounds collision retries per requested code. With a
// 36^6 code space this only trips when the table is nearly saturated.
const maxGenerateAttempts = 100

// VoterCodeStore persists one-time voter codes and their used flag.
type VoterCodeStore struct {
	db *sql.DB
}

func NewVoterCodeStore(db *sql.DB) *VoterCodeStore {
	return &VoterCodeStore{db: db}
}

// Lookup returns the code row by exact match, or ErrNotFound.
func (s *VoterCodeStore) Lookup(ctx context.Context, code string) (models.VoterCode, error) {
	var vc models.VoterCode
	err := s.db.QueryRowContext(ctx, `
		SELECT code, is_used FROM voter_code WHERE code = $1
	`, code).Scan(&vc.Code, &vc.IsUsed)

	if err == sql.ErrNoRows {
		return models.VoterCode{}, ErrNotFound
	}
	if err != nil {
		return models.VoterCode{}, fmt.Errorf("failed to look up voter code: %w", err)
	}
	return vc, nil
}

// MarkUsed flips is_used from false to true in a single conditional update.
// The WHERE clause carries the precondition, so two racing callers cannot
// both win: the database serializes the writes and exactly one affects a row.
// Returns ErrAlreadyUsed if the code was consumed, ErrNotFound if it does
// not exist.
func (s *VoterCodeStore) MarkUsed(ctx context.Context, code string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE voter_code SET is_used = TRUE WHERE code = $1 AND is_used = FALSE
	`, code)
	if err != nil {
		return fmt.Errorf("failed to mark voter code used: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// Zero rows: either the code is unknown or someone else consumed it.
	// Distinguish with a follow-up read; the distinction only affects the
	// error reported, not correctness.
	if _, err := s.Lookup(ctx, code); err != nil {
		return err
	}
	return ErrAlreadyUsed
}

// MarkUnused is the compensating write for a failed cast. It is
// unconditional: rollback must succeed even if the flag state is surprising.
func (s *VoterCodeStore) MarkUnused(ctx context.Context, code string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE voter_code SET is_used = FALSE WHERE code = $1
	`, code)
	if err != nil {
		return fmt.Errorf("failed to mark voter code unused: %w", err)
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

// Generate creates n new unique codes and inserts them in one transaction.
// Candidates colliding with existing rows (or each other) are redrawn.
func (s *VoterCodeStore) Generate(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("code count must be positive, got %d", n)
	}

	existing, err := s.allCodes(ctx)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, n)
	for len(codes) < n {
		var code string
		found := false
		for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
			code, err = auth.RandomCode()
			if err != nil {
				return nil, err
			}
			if !existing[code] {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("could not find a free voter code after %d attempts", maxGenerateAttempts)
		}
		existing[code] = true
		codes = append(codes, code)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, code := range codes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO voter_code (code, is_used) VALUES ($1, FALSE)
		`, code); err != nil {
			return nil, fmt.Errorf("failed to insert voter code: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit voter codes: %w", err)
	}
	return codes, nil
}

// ClearAll deletes every voter code.
func (s *VoterCodeStore) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM voter_code`); err != nil {
		return fmt.Errorf("failed to clear voter codes: %w", err)
	}
	return nil
}

// escapeLike makes a search term safe for use in a LIKE prefix pattern, so
// % and _ in admin input match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns one page of codes ordered by code, optionally filtered by
// prefix, plus the total count matching the filter.
func (s *VoterCodeStore) List(ctx context.Context, page, perPage int, search string) ([]models.VoterCode, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 100
	}
	pattern := escapeLike(search) + "%"

	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM voter_code WHERE code LIKE $1 ESCAPE '\'
	`, pattern).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count voter codes: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT code, is_used FROM voter_code
		WHERE code LIKE $1 ESCAPE '\'
		ORDER BY code
		LIMIT $2 OFFSET $3
	`, pattern, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list voter codes: %w", err)
	}
	defer rows.Close()

	codes := []models.VoterCode{}
	for rows.Next() {
		var vc models.VoterCode
		if err := rows.Scan(&vc.Code, &vc.IsUsed); err != nil {
			return nil, 0, fmt.Errorf("failed to scan voter code: %w", err)
		}
		codes = append(codes, vc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate voter codes: %w", err)
	}

	return codes, total, nil
}

// Count returns the total number of codes.
func (s *VoterCodeStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voter_code`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count voter codes: %w", err)
	}
	return n, nil
}

// CountUsed returns the number of consumed codes.
func (s *VoterCodeStore) CountUsed(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM voter_code WHERE is_used = TRUE
	`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count used voter codes: %w", err)
	}
	return n, nil
}

func (s *VoterCodeStore) allCodes(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code FROM voter_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing voter codes: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan voter code: %w", err)
		}
		existing[code] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate voter codes: %w", err)
	}
	return existing, nil
}
