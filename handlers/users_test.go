// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatalf("response set no %s cookie", middleware.SessionCookie)
	return nil
}

func TestRegister(t *testing.T) {
	l := testutil.SetupTestLedger(t)
	sessions := testutil.NewTestSessions()
	handler := NewAuthHandler(l, sessions, testutil.GetTestConfig())

	body := models.CredentialsRequest{Username: " carol ", Password: "hunter22"}
	w := serve(handler.Register, sessions, l, testutil.MakeRequest("POST", "/api/register", body, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var user models.User
	require.NoError(t, decode(w.Body.String(), &user))
	assert.Equal(t, "carol", user.Username)
	assert.False(t, user.IsAdmin)
	assert.Equal(t, models.DefaultVoteBudget, user.VotesRemaining)
	assert.NotContains(t, w.Body.String(), "hunter22")

	// The new account is logged in straight away
	cookie := sessionCookie(t, w.Result())
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, cookie.Value, w.Header().Get(middleware.SessionTokenHeader))
	userID, ok := sessions.Lookup(cookie.Value)
	require.True(t, ok)
	assert.Equal(t, user.ID, userID)

	// Credential is stored hashed
	stored, err := l.GetUserByUsername(context.Background(), "carol")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", stored.Credential)

	t.Run("duplicate username", func(t *testing.T) {
		w := serve(handler.Register, sessions, l, testutil.MakeRequest("POST", "/api/register", body, nil))
		testutil.AssertStatus(t, w, http.StatusBadRequest)

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		assert.Equal(t, "Username already exists", resp.Message)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name  string
			body  interface{}
			field string
		}{
			{"short username", models.CredentialsRequest{Username: "x", Password: "hunter22"}, "username"},
			{"blank username", models.CredentialsRequest{Username: "   ", Password: "hunter22"}, "username"},
			{"short password", models.CredentialsRequest{Username: "dave", Password: "abc"}, "password"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := serve(handler.Register, sessions, l, testutil.MakeRequest("POST", "/api/register", tt.body, nil))
				testutil.AssertStatus(t, w, http.StatusBadRequest)

				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				require.Len(t, resp.Issues, 1)
				assert.Equal(t, tt.field, resp.Issues[0].Field)
			})
		}
	})
}

func TestLogin(t *testing.T) {
	l := testutil.SetupTestLedger(t)
	sessions := testutil.NewTestSessions()
	handler := NewAuthHandler(l, sessions, testutil.GetTestConfig())

	alice := testutil.CreateTestUser(t, l, "alice", false)

	tests := []struct {
		name           string
		body           models.CredentialsRequest
		expectedStatus int
	}{
		{"valid credentials", models.CredentialsRequest{Username: "alice", Password: testutil.TestPassword}, http.StatusOK},
		{"wrong password", models.CredentialsRequest{Username: "alice", Password: "wrong-password"}, http.StatusUnauthorized},
		{"unknown user", models.CredentialsRequest{Username: "mallory", Password: testutil.TestPassword}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(handler.Login, sessions, l, testutil.MakeRequest("POST", "/api/login", tt.body, nil))
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusOK {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				assert.Equal(t, "Invalid username or password", resp.Message)
				assert.Empty(t, w.Header().Get(middleware.SessionTokenHeader))
				return
			}

			var user models.User
			testutil.AssertJSON(t, w, &user)
			assert.Equal(t, alice.ID, user.ID)

			userID, ok := sessions.Lookup(sessionCookie(t, w.Result()).Value)
			require.True(t, ok)
			assert.Equal(t, alice.ID, userID)
		})
	}
}

func TestLogoutAndGetUser(t *testing.T) {
	l := testutil.SetupTestLedger(t)
	sessions := testutil.NewTestSessions()
	handler := NewAuthHandler(l, sessions, testutil.GetTestConfig())

	alice := testutil.CreateTestUser(t, l, "alice", false)
	headers := testutil.LoginAs(t, sessions, alice)

	w := serve(handler.GetUser, sessions, l, testutil.MakeRequest("GET", "/api/user", nil, headers))
	testutil.AssertStatus(t, w, http.StatusOK)
	var user models.User
	testutil.AssertJSON(t, w, &user)
	assert.Equal(t, "alice", user.Username)

	w = serve(handler.Logout, sessions, l, testutil.MakeRequest("POST", "/api/logout", nil, headers))
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.Equal(t, -1, sessionCookie(t, w.Result()).MaxAge)

	w = serve(handler.GetUser, sessions, l, testutil.MakeRequest("GET", "/api/user", nil, headers))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	// Logging out without a session is harmless
	w = serve(handler.Logout, sessions, l, testutil.MakeRequest("POST", "/api/logout", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}
