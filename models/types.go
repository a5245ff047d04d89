// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// DefaultVoteBudget is the number of votes every new user starts with.
const DefaultVoteBudget = 3

// Request types

type CreateCandidateRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=2000"`
}

type CredentialsRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Domain types

type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Credential     string `json:"-"` // Never expose in JSON
	IsAdmin        bool   `json:"isAdmin"`
	VotesRemaining int    `json:"votesRemaining"`
}

type Candidate struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Votes       int    `json:"votes"`
}

// VoteRecord is the audit entry written for every accepted vote
type VoteRecord struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	CandidateID int64     `json:"candidateId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Results types

type Standing struct {
	Rank        int     `json:"rank"` // 1-indexed, ties share a rank
	CandidateID int64   `json:"candidateId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Votes       int     `json:"votes"`
	Share       float64 `json:"share"` // fraction of all votes, 0 when nothing cast
}

type ResultsResponse struct {
	TotalVotes int        `json:"totalVotes"`
	Standings  []Standing `json:"standings"`
}

// Error response

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Issues  []ValidationIssue `json:"issues,omitempty"`
}

type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
