// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/models"
)

// SQLLedger stores the ledger in PostgreSQL or SQLite.
type SQLLedger struct {
	db      *sql.DB
	dialect string
}

// OpenSQL connects to the database, verifies the connection and creates the
// schema. dialect is also the database/sql driver name.
func OpenSQL(ctx context.Context, dialect, dsn string) (*SQLLedger, error) {
	if dsn == "" {
		return nil, errors.New("database URL required for " + dialect)
	}

	conn, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	l, err := NewSQLLedger(conn, dialect)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return l, nil
}

// NewSQLLedger wraps an open connection and creates the schema
func NewSQLLedger(conn *sql.DB, dialect string) (*SQLLedger, error) {
	if dialect == db.DialectSQLite {
		// One writer at a time; avoids SQLITE_BUSY between transactions
		conn.SetMaxOpenConns(1)
	}

	if err := db.CreateSchema(conn, dialect); err != nil {
		return nil, err
	}
	slog.Info("Database schema ready", "dialect", dialect)

	return &SQLLedger{db: conn, dialect: dialect}, nil
}

// forUpdate locks selected rows until the transaction ends. SQLite locks the
// whole database on write and has no row locks.
func (l *SQLLedger) forUpdate() string {
	if l.dialect == db.DialectPostgres {
		return " FOR UPDATE"
	}
	return ""
}

func (l *SQLLedger) CreateUser(ctx context.Context, username, credential string, isAdmin bool) (models.User, error) {
	user := models.User{
		Username:       username,
		Credential:     credential,
		IsAdmin:        isAdmin,
		VotesRemaining: models.DefaultVoteBudget,
	}

	err := l.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password, is_admin, votes_remaining)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, username, credential, isAdmin, user.VotesRemaining).Scan(&user.ID)

	if isUniqueViolation(err) {
		return models.User{}, ErrDuplicateUser
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

func (l *SQLLedger) GetUser(ctx context.Context, id int64) (models.User, error) {
	return l.scanUser(l.db.QueryRowContext(ctx, `
		SELECT id, username, password, is_admin, votes_remaining
		FROM users
		WHERE id = $1
	`, id))
}

func (l *SQLLedger) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return l.scanUser(l.db.QueryRowContext(ctx, `
		SELECT id, username, password, is_admin, votes_remaining
		FROM users
		WHERE username = $1
	`, username))
}

func (l *SQLLedger) scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Credential, &user.IsAdmin, &user.VotesRemaining)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (l *SQLLedger) CreateCandidate(ctx context.Context, name, description string) (models.Candidate, error) {
	candidate := models.Candidate{Name: name, Description: description}

	err := l.db.QueryRowContext(ctx, `
		INSERT INTO candidates (name, description, votes)
		VALUES ($1, $2, 0)
		RETURNING id
	`, name, description).Scan(&candidate.ID)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to insert candidate: %w", err)
	}

	return candidate, nil
}

func (l *SQLLedger) DeleteCandidate(ctx context.Context, id int64) error {
	_, err := l.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	return nil
}

func (l *SQLLedger) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, name, description, votes
		FROM candidates
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}

	return candidates, nil
}

func (l *SQLLedger) Vote(ctx context.Context, userID, candidateID int64) (models.VoteRecord, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var remaining int
	userErr := tx.QueryRowContext(ctx,
		`SELECT votes_remaining FROM users WHERE id = $1`+l.forUpdate(), userID,
	).Scan(&remaining)
	if userErr != nil && userErr != sql.ErrNoRows {
		return models.VoteRecord{}, fmt.Errorf("failed to query user: %w", userErr)
	}

	var exists int
	candidateErr := tx.QueryRowContext(ctx,
		`SELECT 1 FROM candidates WHERE id = $1`+l.forUpdate(), candidateID,
	).Scan(&exists)
	if candidateErr != nil && candidateErr != sql.ErrNoRows {
		return models.VoteRecord{}, fmt.Errorf("failed to query candidate: %w", candidateErr)
	}

	if userErr == sql.ErrNoRows || candidateErr == sql.ErrNoRows {
		return models.VoteRecord{}, errVoteTargetMissing
	}
	if remaining <= 0 {
		return models.VoteRecord{}, ErrVotesExhausted
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE users SET votes_remaining = votes_remaining - 1
		WHERE id = $1 AND votes_remaining > 0
	`, userID)
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to update user: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to update user: %w", err)
	} else if n == 0 {
		return models.VoteRecord{}, ErrVotesExhausted
	}

	res, err = tx.ExecContext(ctx, `UPDATE candidates SET votes = votes + 1 WHERE id = $1`, candidateID)
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to update candidate: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to update candidate: %w", err)
	} else if n == 0 {
		return models.VoteRecord{}, errVoteTargetMissing
	}

	record := models.VoteRecord{
		UserID:      userID,
		CandidateID: candidateID,
		CreatedAt:   now(),
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO votes (user_id, candidate_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, userID, candidateID, record.CreatedAt).Scan(&record.ID)
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to insert vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to commit vote: %w", err)
	}

	return record, nil
}

func (l *SQLLedger) ListVotes(ctx context.Context) ([]models.VoteRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, user_id, candidate_id, created_at
		FROM votes
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.VoteRecord{}
	for rows.Next() {
		var v models.VoteRecord
		if err := rows.Scan(&v.ID, &v.UserID, &v.CandidateID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		v.CreatedAt = v.CreatedAt.UTC()
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}

	return votes, nil
}

func (l *SQLLedger) Close() error {
	return l.db.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
