// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrVotesExhausted = errors.New("no votes remaining")
	ErrDuplicateUser  = errors.New("username already exists")
)

// errVoteTargetMissing is returned by Vote when either side of the vote is absent
var errVoteTargetMissing = fmt.Errorf("user or candidate %w", ErrNotFound)

// Ledger owns users, candidates and vote counters.
//
// Vote must decrement the user's budget, increment the candidate's tally and
// append a VoteRecord as one atomic step, whatever the backend.
type Ledger interface {
	CreateUser(ctx context.Context, username, credential string, isAdmin bool) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	CreateCandidate(ctx context.Context, name, description string) (models.Candidate, error)
	DeleteCandidate(ctx context.Context, id int64) error
	ListCandidates(ctx context.Context) ([]models.Candidate, error)

	Vote(ctx context.Context, userID, candidateID int64) (models.VoteRecord, error)
	ListVotes(ctx context.Context) ([]models.VoteRecord, error)

	Close() error
}

// Backend names accepted by Open
const (
	BackendMemory   = "memory"
	BackendSQLite   = db.DialectSQLite
	BackendPostgres = db.DialectPostgres
	BackendBolt     = "bolt"
	BackendRedis    = "redis"
)

// Open constructs the ledger selected by cfg.StoreBackend
func Open(ctx context.Context, cfg cliparse.Config) (Ledger, error) {
	switch cfg.StoreBackend {
	case BackendMemory, "":
		return NewMemoryLedger(), nil
	case BackendSQLite, BackendPostgres:
		return OpenSQL(ctx, cfg.StoreBackend, cfg.DatabaseURL)
	case BackendBolt:
		return OpenBolt(cfg.DatabaseURL)
	case BackendRedis:
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// now returns the timestamp stored on vote records. Postgres keeps
// microseconds, so every backend truncates to the same precision.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
