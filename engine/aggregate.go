// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"sort"

	"github.com/pemira/evote-server/models"
)

// ComputeResults derives per-candidate tallies from a snapshot of the ballot
// ledger. Pure function: the ledger is the single source of truth and the
// tally is recomputed from scratch on every read, never maintained as a
// running counter.
//
// Entries are sorted by vote count descending, name ascending on equal
// counts so output is deterministic. Winners are every candidate at the
// maximum count, but only when the maximum is above zero; two or more
// winners is a tie.
func ComputeResults(election models.Election, candidates []models.Candidate, ballots []models.Ballot) models.Results {
	counts := make(map[string]int, len(candidates))
	for _, b := range ballots {
		counts[b.CandidateID]++
	}
	total := len(ballots)

	entries := make([]models.CandidateResult, 0, len(candidates))
	for _, c := range candidates {
		count := counts[c.ID]
		pct := 0.0
		if total > 0 {
			pct = float64(count) / float64(total) * 100
		}
		entries = append(entries, models.CandidateResult{
			Candidate:  c,
			VoteCount:  count,
			Percentage: pct,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].VoteCount != entries[j].VoteCount {
			return entries[i].VoteCount > entries[j].VoteCount
		}
		return entries[i].Name < entries[j].Name
	})

	winners := []models.CandidateResult{}
	if len(entries) > 0 && entries[0].VoteCount > 0 {
		top := entries[0].VoteCount
		for _, e := range entries {
			if e.VoteCount == top {
				winners = append(winners, e)
			}
		}
	}

	return models.Results{
		Election:   election,
		Entries:    entries,
		TotalVotes: total,
		Winners:    winners,
		Tie:        len(winners) > 1,
	}
}
