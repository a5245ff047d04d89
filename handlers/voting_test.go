// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func TestVote(t *testing.T) {
	l := testutil.SetupTestLedger(t)
	sessions := testutil.NewTestSessions()
	handler := NewVotingHandler(l)

	alice := testutil.CreateTestUser(t, l, "alice", false)
	headers := testutil.LoginAs(t, sessions, alice)
	pizza := testutil.CreateTestCandidate(t, l, "Pizza")

	vote := func(id string, headers map[string]string) (int, string) {
		req := testutil.MakeRequest("POST", "/api/vote/"+id, nil, headers)
		req.SetPathValue("candidateId", id)
		w := serve(handler.Vote, sessions, l, req)
		return w.Code, w.Body.String()
	}

	// The whole budget can go to a single candidate
	for i := 1; i <= models.DefaultVoteBudget; i++ {
		code, body := vote(formatID(pizza.ID), headers)
		require.Equal(t, http.StatusOK, code, body)

		var user models.User
		require.NoError(t, decode(body, &user))
		assert.Equal(t, alice.ID, user.ID)
		assert.Equal(t, models.DefaultVoteBudget-i, user.VotesRemaining)
		assert.NotContains(t, body, "password")
	}

	code, body := vote(formatID(pizza.ID), headers)
	assert.Equal(t, http.StatusBadRequest, code)
	var resp models.ErrorResponse
	require.NoError(t, decode(body, &resp))
	assert.Equal(t, "no votes remaining", resp.Message)

	candidates, err := l.ListCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, models.DefaultVoteBudget, candidates[0].Votes)
}

func TestVote_Rejections(t *testing.T) {
	l := testutil.SetupTestLedger(t)
	sessions := testutil.NewTestSessions()
	handler := NewVotingHandler(l)

	bob := testutil.CreateTestUser(t, l, "bob", false)
	headers := testutil.LoginAs(t, sessions, bob)

	tests := []struct {
		name           string
		candidateID    string
		headers        map[string]string
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "unknown candidate",
			candidateID:    "424242",
			headers:        headers,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "user or candidate not found",
		},
		{
			name:           "malformed candidate id",
			candidateID:    "pizza",
			headers:        headers,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid candidate id",
		},
		{
			name:           "anonymous",
			candidateID:    "1",
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Authentication required",
		},
		{
			name:           "stale session",
			candidateID:    "1",
			headers:        map[string]string{"Authorization": "Bearer not-a-session"},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Authentication required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/vote/"+tt.candidateID, nil, tt.headers)
			req.SetPathValue("candidateId", tt.candidateID)
			w := serve(handler.Vote, sessions, l, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			assert.Equal(t, tt.expectedMsg, resp.Message)
		})
	}

	// No rejection may touch the budget
	user, err := l.GetUser(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultVoteBudget, user.VotesRemaining)
}

func TestListVotes(t *testing.T) {
	l := testutil.SetupTestLedger(t)
	sessions := testutil.NewTestSessions()
	handler := NewVotingHandler(l)

	admin := testutil.CreateTestUser(t, l, "admin", true)
	alice := testutil.CreateTestUser(t, l, "alice", false)
	pizza := testutil.CreateTestCandidate(t, l, "Pizza")
	testutil.CastTestVotes(t, l, alice.ID, pizza.ID, 2)

	req := testutil.MakeRequest("GET", "/api/votes", nil, testutil.LoginAs(t, sessions, admin))
	w := serve(handler.ListVotes, sessions, l, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var votes []models.VoteRecord
	testutil.AssertJSON(t, w, &votes)
	require.Len(t, votes, 2)
	for _, v := range votes {
		assert.Equal(t, alice.ID, v.UserID)
		assert.Equal(t, pizza.ID, v.CandidateID)
		assert.False(t, v.CreatedAt.IsZero())
	}
}
