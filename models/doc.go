// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateCandidateRequest: name, description
  - CredentialsRequest: username, password

Both carry validator tags checked by the handlers package.

# Domain Types

  - User: identity, admin flag and remaining vote budget
  - Candidate: name, description and vote tally
  - VoteRecord: one accepted vote (user, candidate, timestamp)

JSON field names are camelCase (votesRemaining, isAdmin, candidateId) to
match the web client. User.Credential is never serialized.

# Response Types

  - Standing / ResultsResponse: ranked live results
  - ErrorResponse: error, message and optional validation issues

# Constants

	DefaultVoteBudget = 3
*/
package models
