// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SessionStore maps session tokens to user ids
type SessionStore interface {
	Create(userID int64) (string, error)
	Lookup(token string) (int64, bool)
	Delete(token string)
}

type session struct {
	userID    int64
	expiresAt time.Time
}

// MemorySessions keeps sessions in memory; everyone is logged out on restart.
type MemorySessions struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]session
	now      func() time.Time
}

func NewMemorySessions(ttl time.Duration) *MemorySessions {
	return &MemorySessions{
		ttl:      ttl,
		sessions: make(map[string]session),
		now:      time.Now,
	}
}

func (s *MemorySessions) Create(userID int64) (string, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{userID: userID, expiresAt: s.now().Add(s.ttl)}

	return token, nil
}

// Lookup returns the session's user. Expired sessions are dropped on sight.
func (s *MemorySessions) Lookup(token string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return 0, false
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.sessions, token)
		return 0, false
	}
	return sess.userID, true
}

func (s *MemorySessions) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Prune removes every expired session and returns how many were dropped
func (s *MemorySessions) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	pruned := 0
	for token, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, token)
			pruned++
		}
	}
	return pruned
}

// RunPruner calls Prune every interval until ctx is done
func (s *MemorySessions) RunPruner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Prune(); n > 0 {
				slog.Info("pruned expired sessions", "count", n)
			}
		}
	}
}
