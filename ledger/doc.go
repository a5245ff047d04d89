// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger owns users, candidates and vote tallies.

# The Ledger Interface

Every backend implements Ledger:

	l, err := ledger.Open(ctx, cfg)
	defer l.Close()

	user, err := l.CreateUser(ctx, "alice", passwordHash, false)
	c, err := l.CreateCandidate(ctx, "Gopher", "Mascot")
	record, err := l.Vote(ctx, user.ID, c.ID)

The ledger performs no authorization; the handlers package checks access
before calling it.

# Voting Rules

New users start with models.DefaultVoteBudget (3) votes. Vote:

  - returns ErrNotFound ("user or candidate not found") if either id is absent
  - returns ErrVotesExhausted if the user has no votes left
  - otherwise decrements the user's budget, increments the candidate's tally
    and appends a VoteRecord, all in one atomic step

A user may spend the whole budget on one candidate.

# Backends

	memory    MemoryLedger  mutex-guarded maps, lost on restart
	sqlite    SQLLedger     modernc.org/sqlite, single connection
	postgres  SQLLedger     lib/pq, SELECT ... FOR UPDATE inside a transaction
	bolt      BoltLedger    one bbolt read-write transaction per mutation
	redis     RedisLedger   Lua scripts, one per mutation

Ids are assigned monotonically from 1 and never reused. DeleteCandidate is
idempotent. Vote records outlive the candidate they reference.

# Errors

	ErrNotFound        lookup or vote target missing
	ErrVotesExhausted  budget spent
	ErrDuplicateUser   username taken

Backend I/O failures are wrapped with %w and should be treated as server
errors.
*/
package ledger
