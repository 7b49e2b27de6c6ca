// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/pemira/evote-server/testutil"
)

func TestMarkUsedTransitions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	codes := NewVoterCodeStore(db)
	ctx := context.Background()

	testutil.AddTestCode(t, db, "AAAAAA", false)
	testutil.AddTestCode(t, db, "BBBBBB", true)

	tests := []struct {
		name    string
		code    string
		wantErr error
	}{
		{name: "unused code is claimed", code: "AAAAAA", wantErr: nil},
		{name: "second claim fails", code: "AAAAAA", wantErr: ErrAlreadyUsed},
		{name: "already used code", code: "BBBBBB", wantErr: ErrAlreadyUsed},
		{name: "unknown code", code: "ZZZZZZ", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := codes.MarkUsed(ctx, tt.code)
			if !errors.Is(err, tt.wantErr) && !(tt.wantErr == nil && err == nil) {
				t.Errorf("MarkUsed(%q) = %v, want %v", tt.code, err, tt.wantErr)
			}
		})
	}

	// The winning claim must be visible
	vc, err := codes.Lookup(ctx, "AAAAAA")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !vc.IsUsed {
		t.Error("Expected AAAAAA to be marked used")
	}
}

func TestMarkUnusedReleasesClaim(t *testing.T) {
	db := testutil.SetupTestDB(t)
	codes := NewVoterCodeStore(db)
	ctx := context.Background()

	testutil.AddTestCode(t, db, "CCCCCC", true)

	if err := codes.MarkUnused(ctx, "CCCCCC"); err != nil {
		t.Fatalf("MarkUnused failed: %v", err)
	}

	// The code is claimable again
	if err := codes.MarkUsed(ctx, "CCCCCC"); err != nil {
		t.Errorf("Expected released code to be claimable, got %v", err)
	}

	if err := codes.MarkUnused(ctx, "NOPE99"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkUnused on unknown code = %v, want ErrNotFound", err)
	}
}

func TestLookupUnknownCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	codes := NewVoterCodeStore(db)

	_, err := codes.Lookup(context.Background(), "ABSENT")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup on unknown code = %v, want ErrNotFound", err)
	}
}

func TestGenerateCodes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	codes := NewVoterCodeStore(db)
	ctx := context.Background()

	generated, err := codes.Generate(ctx, 25)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(generated) != 25 {
		t.Fatalf("Expected 25 codes, got %d", len(generated))
	}

	seen := make(map[string]bool)
	for _, code := range generated {
		if len(code) != 6 {
			t.Errorf("Code %q has length %d, want 6", code, len(code))
		}
		if seen[code] {
			t.Errorf("Duplicate code generated: %q", code)
		}
		seen[code] = true

		// Every generated code must be persisted unused
		vc, err := codes.Lookup(ctx, code)
		if err != nil {
			t.Errorf("Generated code %q not found: %v", code, err)
			continue
		}
		if vc.IsUsed {
			t.Errorf("Generated code %q should be unused", code)
		}
	}

	// A second batch must not collide with the first
	more, err := codes.Generate(ctx, 25)
	if err != nil {
		t.Fatalf("Second Generate failed: %v", err)
	}
	for _, code := range more {
		if seen[code] {
			t.Errorf("Second batch reused code %q", code)
		}
	}

	if _, err := codes.Generate(ctx, 0); err == nil {
		t.Error("Expected error for zero count")
	}
}

func TestClearAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	codes := NewVoterCodeStore(db)
	ctx := context.Background()

	if _, err := codes.Generate(ctx, 10); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if err := codes.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	n, err := codes.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 codes after ClearAll, got %d", n)
	}
}

func TestListPaginationAndSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	codes := NewVoterCodeStore(db)
	ctx := context.Background()

	for _, c := range []string{"AAA111", "AAB222", "AAC333", "BBB444", "BBC555"} {
		testutil.AddTestCode(t, db, c, false)
	}

	// Page one of two
	page, total, err := codes.List(ctx, 1, 2, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 5 {
		t.Errorf("Expected total 5, got %d", total)
	}
	if len(page) != 2 {
		t.Fatalf("Expected 2 codes on page, got %d", len(page))
	}
	if page[0].Code != "AAA111" || page[1].Code != "AAB222" {
		t.Errorf("Unexpected page ordering: %v", page)
	}

	// Last page is short
	page, _, err = codes.List(ctx, 3, 2, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page) != 1 || page[0].Code != "BBC555" {
		t.Errorf("Unexpected last page: %v", page)
	}

	// Prefix search
	page, total, err = codes.List(ctx, 1, 10, "AA")
	if err != nil {
		t.Fatalf("List with search failed: %v", err)
	}
	if total != 3 || len(page) != 3 {
		t.Errorf("Expected 3 matches for prefix AA, got total=%d len=%d", total, len(page))
	}
}

// TestListSearchMatchesLiterally guards against % and _ in search input
// acting as LIKE wildcards.
func TestListSearchMatchesLiterally(t *testing.T) {
	db := testutil.SetupTestDB(t)
	codes := NewVoterCodeStore(db)
	ctx := context.Background()

	for _, c := range []string{"AAA111", "AAB222", "BBB444"} {
		testutil.AddTestCode(t, db, c, false)
	}

	for _, search := range []string{"%", "_", "A_A", "%B%"} {
		_, total, err := codes.List(ctx, 1, 10, search)
		if err != nil {
			t.Fatalf("List with search %q failed: %v", search, err)
		}
		if total != 0 {
			t.Errorf("Expected no matches for search %q, got %d", search, total)
		}
	}

	// Plain prefixes still match
	_, total, err := codes.List(ctx, 1, 10, "AA")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 {
		t.Errorf("Expected 2 matches for prefix AA, got %d", total)
	}
}

func TestCountUsed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	codes := NewVoterCodeStore(db)
	ctx := context.Background()

	testutil.AddTestCode(t, db, "USED01", true)
	testutil.AddTestCode(t, db, "USED02", true)
	testutil.AddTestCode(t, db, "FRESH1", false)

	used, err := codes.CountUsed(ctx)
	if err != nil {
		t.Fatalf("CountUsed failed: %v", err)
	}
	if used != 2 {
		t.Errorf("Expected 2 used codes, got %d", used)
	}
}
