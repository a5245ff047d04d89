// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Supported SQL dialects
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	stmt, err := Schema(dialect)
	if err != nil {
		return err
	}

	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Schema returns the DDL for the given dialect
func Schema(dialect string) (string, error) {
	var idColumn string
	switch dialect {
	case DialectPostgres:
		idColumn = "BIGSERIAL PRIMARY KEY"
	case DialectSQLite:
		idColumn = "INTEGER PRIMARY KEY AUTOINCREMENT"
	default:
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}
	return strings.ReplaceAll(schema, "{{id}}", idColumn), nil
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS users (
    id {{id}},
    username TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    votes_remaining INTEGER NOT NULL DEFAULT 3 CHECK (votes_remaining >= 0)
);

-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
    id {{id}},
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    votes INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0)
);

-- Votes (audit trail, kept when a candidate is deleted)
CREATE TABLE IF NOT EXISTS votes (
    id {{id}},
    user_id BIGINT NOT NULL REFERENCES users(id),
    candidate_id BIGINT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_votes_user_id ON votes(user_id);
CREATE INDEX IF NOT EXISTS idx_votes_candidate_id ON votes(candidate_id);
`
