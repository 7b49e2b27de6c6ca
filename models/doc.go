// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - VoterLoginRequest: code
  - CastVoteRequest: code, election_id, candidate_id
  - AdminLoginRequest: code
  - ElectionRequest: title, description, start_date, end_date
  - CandidateRequest: name, vision, mission, photo_url
  - GenerateCodesRequest: count

# Response Types

Types for JSON responses:

  - CastVoteResponse: ballot_id, cast_at, message
  - GenerateCodesResponse: codes
  - CodePageResponse: codes, total_count, page, per_page
  - StatsResponse: aggregate counts for the admin dashboard
  - PhotoUploadResponse: photo_url
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - VoterCode: one-time voting credential and its used flag
  - Election: election metadata and active flag
  - Candidate: candidate profile owned by one election
  - Ballot: immutable record of one cast vote
  - CandidateResult / Results: derived tallies, never stored

# Constants

Voter code format:

	CodeLength   = 6
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
*/
package models
