// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/danielhkuo/quickly-vote/models"
)

// MemoryLedger keeps everything in process memory. State is lost on restart.
type MemoryLedger struct {
	mu         sync.RWMutex
	users      map[int64]*models.User
	usernames  map[string]int64
	candidates map[int64]*models.Candidate
	votes      []models.VoteRecord

	lastUserID      int64
	lastCandidateID int64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		users:      make(map[int64]*models.User),
		usernames:  make(map[string]int64),
		candidates: make(map[int64]*models.Candidate),
	}
}

func (l *MemoryLedger) CreateUser(_ context.Context, username, credential string, isAdmin bool) (models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.usernames[username]; taken {
		return models.User{}, ErrDuplicateUser
	}

	l.lastUserID++
	user := &models.User{
		ID:             l.lastUserID,
		Username:       username,
		Credential:     credential,
		IsAdmin:        isAdmin,
		VotesRemaining: models.DefaultVoteBudget,
	}
	l.users[user.ID] = user
	l.usernames[username] = user.ID

	return *user, nil
}

func (l *MemoryLedger) GetUser(_ context.Context, id int64) (models.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	user, ok := l.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return *user, nil
}

func (l *MemoryLedger) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	id, ok := l.usernames[username]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return *l.users[id], nil
}

func (l *MemoryLedger) CreateCandidate(_ context.Context, name, description string) (models.Candidate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastCandidateID++
	candidate := &models.Candidate{
		ID:          l.lastCandidateID,
		Name:        name,
		Description: description,
	}
	l.candidates[candidate.ID] = candidate

	return *candidate, nil
}

func (l *MemoryLedger) DeleteCandidate(_ context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.candidates, id)
	return nil
}

func (l *MemoryLedger) ListCandidates(_ context.Context) ([]models.Candidate, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	candidates := make([]models.Candidate, 0, len(l.candidates))
	for _, c := range l.candidates {
		candidates = append(candidates, *c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID < candidates[j].ID
	})

	return candidates, nil
}

func (l *MemoryLedger) Vote(_ context.Context, userID, candidateID int64) (models.VoteRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, userOK := l.users[userID]
	candidate, candidateOK := l.candidates[candidateID]
	if !userOK || !candidateOK {
		return models.VoteRecord{}, errVoteTargetMissing
	}

	if user.VotesRemaining <= 0 {
		return models.VoteRecord{}, ErrVotesExhausted
	}

	user.VotesRemaining--
	candidate.Votes++

	record := models.VoteRecord{
		ID:          int64(len(l.votes) + 1),
		UserID:      userID,
		CandidateID: candidateID,
		CreatedAt:   now(),
	}
	l.votes = append(l.votes, record)

	return record, nil
}

func (l *MemoryLedger) ListVotes(_ context.Context) ([]models.VoteRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	votes := make([]models.VoteRecord, len(l.votes))
	copy(votes, l.votes)
	return votes, nil
}

func (l *MemoryLedger) Close() error {
	return nil
}
