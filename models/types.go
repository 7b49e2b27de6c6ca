// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Voter code format constants
const (
	CodeLength   = 6
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Request types

type VoterLoginRequest struct {
	Code string `json:"code"`
}

type CastVoteRequest struct {
	Code        string `json:"code"`
	ElectionID  string `json:"election_id"`
	CandidateID string `json:"candidate_id"`
}

type AdminLoginRequest struct {
	Code string `json:"code"`
}

type ElectionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type CandidateRequest struct {
	Name     string `json:"name"`
	Vision   string `json:"vision"`
	Mission  string `json:"mission"`
	PhotoURL string `json:"photo_url"`
}

type GenerateCodesRequest struct {
	Count int `json:"count"`
}

// Response types

type CastVoteResponse struct {
	BallotID string    `json:"ballot_id"`
	CastAt   time.Time `json:"cast_at"`
	Message  string    `json:"message"`
}

type GenerateCodesResponse struct {
	Codes []string `json:"codes"`
}

type CodePageResponse struct {
	Codes      []VoterCode `json:"codes"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
}

type StatsResponse struct {
	Elections  int `json:"elections"`
	Candidates int `json:"candidates"`
	Codes      int `json:"codes"`
	UsedCodes  int `json:"used_codes"`
	Ballots    int `json:"ballots"`
}

type PhotoUploadResponse struct {
	PhotoURL string `json:"photo_url"`
}

// Domain types

type VoterCode struct {
	Code   string `json:"code"`
	IsUsed bool   `json:"is_used"`
}

type Election struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	IsActive    bool   `json:"is_active"`
}

type Candidate struct {
	ID         string `json:"id"`
	ElectionID string `json:"election_id"`
	Name       string `json:"name"`
	Vision     string `json:"vision"`
	Mission    string `json:"mission"`
	PhotoURL   string `json:"photo_url"`
}

type Ballot struct {
	ID          string    `json:"id"`
	ElectionID  string    `json:"election_id"`
	CandidateID string    `json:"candidate_id"`
	VoterCode   string    `json:"-"` // Never expose in JSON
	CastAt      time.Time `json:"cast_at"`
}

type ElectionWithCandidates struct {
	Election   Election    `json:"election"`
	Candidates []Candidate `json:"candidates"`
}

// Result types

type CandidateResult struct {
	Candidate
	VoteCount  int     `json:"vote_count"`
	Percentage float64 `json:"percentage"`
}

type Results struct {
	Election   Election          `json:"election"`
	Entries    []CandidateResult `json:"entries"`
	TotalVotes int               `json:"total_votes"`
	Winners    []CandidateResult `json:"winners"`
	Tie        bool              `json:"tie"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
