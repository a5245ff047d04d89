// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Vote API server.

Quickly Vote is a small voting service: registered users each get three votes
to spread across candidates an admin maintains, and everyone can watch the
live standings.

# Starting the Server

With no configuration the server runs on port 5000 with an in-memory ledger:

	go run .

Persistent backends take a connection string:

	STORE_BACKEND=postgres DATABASE_URL=postgres://... go run .
	go run . -s sqlite -d ./votes.db
	go run . -s bolt -d ./votes.bolt
	go run . -s redis -redis-addr localhost:6379

Settings may also come from a .env file (-env-file).

# Configuration

  - PORT (-p): Server port (default: 5000)
  - STORE_BACKEND (-s): memory, sqlite, postgres, bolt or redis
  - DATABASE_URL (-d): DSN or file path for sqlite, postgres and bolt
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB: Redis connection
  - SESSION_TTL: Session lifetime (default: 24h)
  - ADMIN_USERNAME, ADMIN_PASSWORD: Admin account created at startup

# Architecture

  - ledger: Users, candidates and vote accounting behind one interface
  - handlers: HTTP request handlers (candidates, voting, results, accounts, GraphQL)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, sessions, JSON helpers
  - auth: Password hashing, session tokens and the session store
  - metrics: Prometheus collectors
  - models: Domain and request/response types
  - db: SQL schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
