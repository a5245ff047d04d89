// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements HTTP request handlers for the API.

# Handler Types

Each handler is created with the ledger and configuration:

	candidateHandler := handlers.NewCandidateHandler(l)
	votingHandler := handlers.NewVotingHandler(l)
	resultsHandler := handlers.NewResultsHandler(l)
	authHandler := handlers.NewAuthHandler(l, sessions, cfg)

# Candidates

	GET    /api/candidates       - List candidates with tallies (public)
	POST   /api/candidates       - Create candidate (admin)
	DELETE /api/candidates/{id}  - Delete candidate, idempotent (admin)

Create validates {name, description}: both required after trimming. Failures
return 400 with one issue per field.

# Voting

	POST /api/vote/{candidateId} - Spend one vote (authenticated)
	GET  /api/votes              - Vote audit trail (admin)

A successful vote returns the caller's updated user record. Ledger refusals
("user or candidate not found", "no votes remaining") return 400 with the
ledger's message.

# Results

	GET /api/results  - Candidates ranked by votes, with share of total
	/api/graphql      - Read-only GraphQL: candidates, candidate(id), results

ComputeStandings orders by votes descending, then candidate id.

# Accounts

	POST /api/register - Create a regular account and log in
	POST /api/login    - Log in
	POST /api/logout   - Drop the session
	GET  /api/user     - Current user (authenticated)

Authorization happens in the router via middleware.RequireUser and
middleware.RequireAdmin before any handler touches the ledger.

# Error Handling

All handlers use consistent error responses:

	middleware.ErrorResponse(w, http.StatusBadRequest, "invalid candidate id")

Common status codes:

  - 400: validation failure or refused vote
  - 401: not logged in / bad credentials
  - 403: not an admin
  - 500: ledger backend failure
*/
package handlers
