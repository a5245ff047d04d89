// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/danielhkuo/quickly-vote/models"
)

// DefaultRedisPrefix namespaces every key the ledger writes
const DefaultRedisPrefix = "quickvote:"

// Lua keeps each multi-key mutation atomic on the server.
var (
	createUserScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 1 then
	return 0
end
local id = redis.call('INCR', KEYS[2])
redis.call('HSET', ARGV[5] .. id,
	'id', id, 'username', ARGV[1], 'credential', ARGV[2],
	'is_admin', ARGV[3], 'votes_remaining', ARGV[4])
redis.call('HSET', KEYS[1], ARGV[1], id)
return id
`)

	createCandidateScript = redis.NewScript(`
local id = redis.call('INCR', KEYS[1])
redis.call('HSET', ARGV[3] .. id, 'id', id, 'name', ARGV[1], 'description', ARGV[2], 'votes', 0)
redis.call('ZADD', KEYS[2], id, id)
return id
`)

	// -1: user or candidate missing, -2: budget exhausted, otherwise the vote id
	voteScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 or redis.call('EXISTS', KEYS[2]) == 0 then
	return -1
end
local remaining = tonumber(redis.call('HGET', KEYS[1], 'votes_remaining'))
if remaining == nil or remaining <= 0 then
	return -2
end
redis.call('HINCRBY', KEYS[1], 'votes_remaining', -1)
redis.call('HINCRBY', KEYS[2], 'votes', 1)
local id = redis.call('INCR', KEYS[3])
redis.call('HSET', ARGV[4] .. id, 'id', id, 'user_id', ARGV[1], 'candidate_id', ARGV[2], 'created_at', ARGV[3])
redis.call('ZADD', KEYS[4], id, id)
return id
`)
)

// RedisLedger stores the ledger in Redis hashes.
//
// Layout (relative to prefix):
//
//	user:{id}          hash  id, username, credential, is_admin, votes_remaining
//	usernames          hash  username -> id
//	candidate:{id}     hash  id, name, description, votes
//	candidates         zset  candidate ids
//	vote:{id}          hash  id, user_id, candidate_id, created_at
//	votes              zset  vote ids
//	seq:{user,candidate,vote}
type RedisLedger struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects to a Redis server and verifies the connection
func OpenRedis(ctx context.Context, addr, password string, db int) (*RedisLedger, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return NewRedisLedger(client, DefaultRedisPrefix), nil
}

func NewRedisLedger(client *redis.Client, prefix string) *RedisLedger {
	return &RedisLedger{client: client, prefix: prefix}
}

func (l *RedisLedger) key(parts ...string) string {
	k := l.prefix
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += p
	}
	return k
}

func (l *RedisLedger) userKey(id int64) string {
	return l.key("user", strconv.FormatInt(id, 10))
}

func (l *RedisLedger) candidateKey(id int64) string {
	return l.key("candidate", strconv.FormatInt(id, 10))
}

func (l *RedisLedger) CreateUser(ctx context.Context, username, credential string, isAdmin bool) (models.User, error) {
	id, err := createUserScript.Run(ctx, l.client,
		[]string{l.key("usernames"), l.key("seq", "user")},
		username, credential, strconv.FormatBool(isAdmin), models.DefaultVoteBudget, l.key("user", ""),
	).Int64()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	if id == 0 {
		return models.User{}, ErrDuplicateUser
	}

	return models.User{
		ID:             id,
		Username:       username,
		Credential:     credential,
		IsAdmin:        isAdmin,
		VotesRemaining: models.DefaultVoteBudget,
	}, nil
}

func (l *RedisLedger) GetUser(ctx context.Context, id int64) (models.User, error) {
	fields, err := l.client.HGetAll(ctx, l.userKey(id)).Result()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	if len(fields) == 0 {
		return models.User{}, ErrNotFound
	}
	return parseUser(fields)
}

func (l *RedisLedger) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	id, err := l.client.HGet(ctx, l.key("usernames"), username).Int64()
	if err == redis.Nil {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query username: %w", err)
	}
	return l.GetUser(ctx, id)
}

func (l *RedisLedger) CreateCandidate(ctx context.Context, name, description string) (models.Candidate, error) {
	id, err := createCandidateScript.Run(ctx, l.client,
		[]string{l.key("seq", "candidate"), l.key("candidates")},
		name, description, l.key("candidate", ""),
	).Int64()
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to create candidate: %w", err)
	}

	return models.Candidate{ID: id, Name: name, Description: description}, nil
}

func (l *RedisLedger) DeleteCandidate(ctx context.Context, id int64) error {
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, l.candidateKey(id))
		pipe.ZRem(ctx, l.key("candidates"), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	return nil
}

func (l *RedisLedger) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	rows, err := l.hashesByIndex(ctx, l.key("candidates"), l.key("candidate", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(rows))
	for _, fields := range rows {
		c, err := parseCandidate(fields)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (l *RedisLedger) Vote(ctx context.Context, userID, candidateID int64) (models.VoteRecord, error) {
	createdAt := now()

	id, err := voteScript.Run(ctx, l.client,
		[]string{l.userKey(userID), l.candidateKey(candidateID), l.key("seq", "vote"), l.key("votes")},
		userID, candidateID, createdAt.Format(time.RFC3339Nano), l.key("vote", ""),
	).Int64()
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to record vote: %w", err)
	}

	switch id {
	case -1:
		return models.VoteRecord{}, errVoteTargetMissing
	case -2:
		return models.VoteRecord{}, ErrVotesExhausted
	}

	return models.VoteRecord{
		ID:          id,
		UserID:      userID,
		CandidateID: candidateID,
		CreatedAt:   createdAt,
	}, nil
}

func (l *RedisLedger) ListVotes(ctx context.Context) ([]models.VoteRecord, error) {
	rows, err := l.hashesByIndex(ctx, l.key("votes"), l.key("vote", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}

	votes := make([]models.VoteRecord, 0, len(rows))
	for _, fields := range rows {
		v, err := parseVote(fields)
		if err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, nil
}

func (l *RedisLedger) Close() error {
	return l.client.Close()
}

// hashesByIndex loads every hash whose id is a member of the index zset, in
// ascending id order. Members deleted between the two round trips are skipped.
func (l *RedisLedger) hashesByIndex(ctx context.Context, index, keyPrefix string) ([]map[string]string, error) {
	ids, err := l.client.ZRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := l.client.Pipeline()
	cmds := make([]*redis.StringStringMapCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, keyPrefix+id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(cmds))
	for _, cmd := range cmds {
		if fields := cmd.Val(); len(fields) > 0 {
			rows = append(rows, fields)
		}
	}
	return rows, nil
}

func parseUser(fields map[string]string) (models.User, error) {
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return models.User{}, fmt.Errorf("corrupt user id %q: %w", fields["id"], err)
	}
	remaining, err := strconv.Atoi(fields["votes_remaining"])
	if err != nil {
		return models.User{}, fmt.Errorf("corrupt votes_remaining for user %d: %w", id, err)
	}
	isAdmin, _ := strconv.ParseBool(fields["is_admin"])

	return models.User{
		ID:             id,
		Username:       fields["username"],
		Credential:     fields["credential"],
		IsAdmin:        isAdmin,
		VotesRemaining: remaining,
	}, nil
}

func parseCandidate(fields map[string]string) (models.Candidate, error) {
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("corrupt candidate id %q: %w", fields["id"], err)
	}
	votes, err := strconv.Atoi(fields["votes"])
	if err != nil {
		return models.Candidate{}, fmt.Errorf("corrupt votes for candidate %d: %w", id, err)
	}

	return models.Candidate{
		ID:          id,
		Name:        fields["name"],
		Description: fields["description"],
		Votes:       votes,
	}, nil
}

func parseVote(fields map[string]string) (models.VoteRecord, error) {
	var v models.VoteRecord
	var err error

	if v.ID, err = strconv.ParseInt(fields["id"], 10, 64); err != nil {
		return v, fmt.Errorf("corrupt vote id %q: %w", fields["id"], err)
	}
	if v.UserID, err = strconv.ParseInt(fields["user_id"], 10, 64); err != nil {
		return v, fmt.Errorf("corrupt user_id for vote %d: %w", v.ID, err)
	}
	if v.CandidateID, err = strconv.ParseInt(fields["candidate_id"], 10, 64); err != nil {
		return v, fmt.Errorf("corrupt candidate_id for vote %d: %w", v.ID, err)
	}
	if v.CreatedAt, err = time.Parse(time.RFC3339Nano, fields["created_at"]); err != nil {
		return v, fmt.Errorf("corrupt created_at for vote %d: %w", v.ID, err)
	}
	return v, nil
}
