// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyUsed is returned by MarkUsed when the conditional update
	// finds the code already consumed.
	ErrAlreadyUsed = errors.New("voter code already used")
)
