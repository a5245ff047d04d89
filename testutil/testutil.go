// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/models"
)

// TestPassword is the password given to every user created by CreateTestUser
const TestPassword = "test-password"

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         5000,
		StoreBackend: ledger.BackendMemory,
		SessionTTL:   time.Hour,
	}
}

// SetupTestLedger returns a fresh in-memory ledger closed at test end
func SetupTestLedger(t *testing.T) ledger.Ledger {
	t.Helper()
	l := ledger.NewMemoryLedger()
	t.Cleanup(func() { l.Close() })
	return l
}

// NewTestSessions returns an empty session store
func NewTestSessions() *auth.MemorySessions {
	return auth.NewMemorySessions(time.Hour)
}

// CreateTestUser creates a user with TestPassword
func CreateTestUser(t *testing.T, l ledger.Ledger, username string, isAdmin bool) models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user, err := l.CreateUser(context.Background(), username, hash, isAdmin)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateTestCandidate adds a candidate and returns it
func CreateTestCandidate(t *testing.T, l ledger.Ledger, name string) models.Candidate {
	t.Helper()

	c, err := l.CreateCandidate(context.Background(), name, name+" description")
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return c
}

// CastTestVotes votes n times for the candidate on behalf of the user
func CastTestVotes(t *testing.T, l ledger.Ledger, userID, candidateID int64, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		if _, err := l.Vote(context.Background(), userID, candidateID); err != nil {
			t.Fatalf("Failed to cast test vote %d: %v", i+1, err)
		}
	}
}

// LoginAs opens a session for the user and returns the Authorization header
func LoginAs(t *testing.T, sessions auth.SessionStore, user models.User) map[string]string {
	t.Helper()

	token, err := sessions.Create(user.ID)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
