// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/danielhkuo/quickly-vote/models"
)

var (
	usersBucket      = []byte("users")
	usernamesBucket  = []byte("usernames")
	candidatesBucket = []byte("candidates")
	votesBucket      = []byte("votes")
)

// BoltLedger stores the ledger in a single bbolt file. Every mutation runs in
// one read-write transaction.
type BoltLedger struct {
	bolt *bbolt.DB
}

// storedUser keeps the credential, which models.User never serializes
type storedUser struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Credential     string `json:"credential"`
	IsAdmin        bool   `json:"is_admin"`
	VotesRemaining int    `json:"votes_remaining"`
}

func (u storedUser) model() models.User {
	return models.User{
		ID:             u.ID,
		Username:       u.Username,
		Credential:     u.Credential,
		IsAdmin:        u.IsAdmin,
		VotesRemaining: u.VotesRemaining,
	}
}

// OpenBolt opens (or creates) the database file at path
func OpenBolt(path string) (*BoltLedger, error) {
	if path == "" {
		return nil, errors.New("database path required for bolt")
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{usersBucket, usernamesBucket, candidatesBucket, votesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltLedger{bolt: db}, nil
}

func (l *BoltLedger) CreateUser(_ context.Context, username, credential string, isAdmin bool) (models.User, error) {
	var user storedUser

	err := l.bolt.Update(func(tx *bbolt.Tx) error {
		names := tx.Bucket(usernamesBucket)
		if names.Get([]byte(username)) != nil {
			return ErrDuplicateUser
		}

		users := tx.Bucket(usersBucket)
		seq, err := users.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate user id: %w", err)
		}

		user = storedUser{
			ID:             int64(seq),
			Username:       username,
			Credential:     credential,
			IsAdmin:        isAdmin,
			VotesRemaining: models.DefaultVoteBudget,
		}
		if err := putJSON(users, user.ID, user); err != nil {
			return err
		}
		return names.Put([]byte(username), itob(user.ID))
	})
	if err != nil {
		return models.User{}, err
	}

	return user.model(), nil
}

func (l *BoltLedger) GetUser(_ context.Context, id int64) (models.User, error) {
	var user storedUser
	err := l.bolt.View(func(tx *bbolt.Tx) error {
		return getJSON(tx.Bucket(usersBucket), id, &user)
	})
	if err != nil {
		return models.User{}, err
	}
	return user.model(), nil
}

func (l *BoltLedger) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	var user storedUser
	err := l.bolt.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(usernamesBucket).Get([]byte(username))
		if id == nil {
			return ErrNotFound
		}
		return getJSON(tx.Bucket(usersBucket), btoi(id), &user)
	})
	if err != nil {
		return models.User{}, err
	}
	return user.model(), nil
}

func (l *BoltLedger) CreateCandidate(_ context.Context, name, description string) (models.Candidate, error) {
	var candidate models.Candidate

	err := l.bolt.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(candidatesBucket)
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate candidate id: %w", err)
		}

		candidate = models.Candidate{
			ID:          int64(seq),
			Name:        name,
			Description: description,
		}
		return putJSON(bucket, candidate.ID, candidate)
	})
	if err != nil {
		return models.Candidate{}, err
	}

	return candidate, nil
}

func (l *BoltLedger) DeleteCandidate(_ context.Context, id int64) error {
	return l.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(candidatesBucket).Delete(itob(id))
	})
}

func (l *BoltLedger) ListCandidates(_ context.Context) ([]models.Candidate, error) {
	candidates := []models.Candidate{}

	// Keys are big-endian ids, so ForEach walks them in id order
	err := l.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(candidatesBucket).ForEach(func(_, v []byte) error {
			var c models.Candidate
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("failed to decode candidate: %w", err)
			}
			candidates = append(candidates, c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return candidates, nil
}

func (l *BoltLedger) Vote(_ context.Context, userID, candidateID int64) (models.VoteRecord, error) {
	var record models.VoteRecord

	err := l.bolt.Update(func(tx *bbolt.Tx) error {
		users := tx.Bucket(usersBucket)
		candidates := tx.Bucket(candidatesBucket)

		var user storedUser
		var candidate models.Candidate
		userErr := getJSON(users, userID, &user)
		candidateErr := getJSON(candidates, candidateID, &candidate)

		if errors.Is(userErr, ErrNotFound) || errors.Is(candidateErr, ErrNotFound) {
			return errVoteTargetMissing
		}
		if userErr != nil {
			return userErr
		}
		if candidateErr != nil {
			return candidateErr
		}

		if user.VotesRemaining <= 0 {
			return ErrVotesExhausted
		}

		user.VotesRemaining--
		candidate.Votes++

		if err := putJSON(users, user.ID, user); err != nil {
			return err
		}
		if err := putJSON(candidates, candidate.ID, candidate); err != nil {
			return err
		}

		votes := tx.Bucket(votesBucket)
		seq, err := votes.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate vote id: %w", err)
		}
		record = models.VoteRecord{
			ID:          int64(seq),
			UserID:      userID,
			CandidateID: candidateID,
			CreatedAt:   now(),
		}
		return putJSON(votes, record.ID, record)
	})
	if err != nil {
		return models.VoteRecord{}, err
	}

	return record, nil
}

func (l *BoltLedger) ListVotes(_ context.Context) ([]models.VoteRecord, error) {
	votes := []models.VoteRecord{}

	err := l.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(votesBucket).ForEach(func(_, v []byte) error {
			var record models.VoteRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("failed to decode vote: %w", err)
			}
			votes = append(votes, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return votes, nil
}

// Close closes the database. Any call made afterwards returns an error.
func (l *BoltLedger) Close() error {
	return l.bolt.Close()
}

func putJSON(bucket *bbolt.Bucket, id int64, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record %d: %w", id, err)
	}
	return bucket.Put(itob(id), data)
}

func getJSON(bucket *bbolt.Bucket, id int64, v interface{}) error {
	data := bucket.Get(itob(id))
	if data == nil {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode record %d: %w", id, err)
	}
	return nil
}

// itob encodes an id as an 8-byte big-endian key
func itob(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func btoi(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}
