// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Vote API.

# Route Registration

NewRouter returns the complete handler tree:

	handler, err := router.NewRouter(l, sessions, cfg)

The mux is wrapped, outermost first, in CORS and session resolution, so every
handler can ask middleware.CurrentUser for the caller.

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Accounts:

	POST /api/register - Create account and log in
	POST /api/login    - Log in
	POST /api/logout   - Log out
	GET  /api/user     - Current user (authenticated)

Candidates:

	GET    /api/candidates      - List (public)
	POST   /api/candidates      - Create (admin)
	DELETE /api/candidates/{id} - Delete (admin)

Voting:

	POST /api/vote/{candidateId} - Cast one vote (authenticated)
	GET  /api/votes              - Audit trail (admin)

Results (public):

	GET      /api/results - Ranked standings
	GET/POST /api/graphql - Read-only GraphQL

# Access Control

Guards wrap handlers at registration, so authorization runs before any
ledger call:

	middleware.WithLogging(middleware.RequireAdmin(candidateHandler.CreateCandidate))
*/
package router
