// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"fmt"
	"log/slog"
)

// OrphanScanner answers the reconciliation query: used codes with no ballot.
type OrphanScanner interface {
	CodesWithoutBallots(ctx context.Context) ([]string, error)
}

// Reconciler is the background consistency check backing the casting saga.
// A used code without a ballot means a compensation failed (or the process
// died between the claim and the ballot write). The sweep only reports;
// repair is an operator decision, since releasing a code that belongs to a
// lost ballot would hand out a second vote.
type Reconciler struct {
	scanner OrphanScanner
}

func NewReconciler(scanner OrphanScanner) *Reconciler {
	return &Reconciler{scanner: scanner}
}

// Sweep returns the codes currently orphaned and logs each one distinctly.
func (r *Reconciler) Sweep(ctx context.Context) ([]string, error) {
	codes, err := r.scanner.CodesWithoutBallots(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconciliation scan: %w", err)
	}

	for _, code := range codes {
		slog.Error("used voter code has no ballot, needs operator reconciliation",
			"event", "fatal_inconsistency",
			"code", code,
		)
	}

	if len(codes) == 0 {
		slog.Debug("reconciliation sweep clean")
	}
	return codes, nil
}
