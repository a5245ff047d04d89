// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for the SQL ledger backend.

# Schema Creation

CreateSchema initializes all required tables for a dialect:

	if err := db.CreateSchema(conn, db.DialectPostgres); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
Supported dialects are DialectPostgres (lib/pq) and DialectSQLite
(modernc.org/sqlite). They differ only in the auto-increment id column.

# Tables

  - users: username, password hash, admin flag, votes_remaining
  - candidates: name, description, votes
  - votes: one row per accepted vote

# Relationships

	users 1──* votes
	candidates 1──* votes (soft, rows survive candidate deletion)

CHECK constraints keep votes_remaining and votes non-negative.
*/
package db
