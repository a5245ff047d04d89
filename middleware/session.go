// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/models"
)

const (
	SessionCookie      = "quickvote_session"
	SessionTokenHeader = "X-Session-Token"
)

type contextKey int

const (
	userKey contextKey = iota
	tokenKey
)

// UserSource resolves a session's user id to the current user record
type UserSource interface {
	GetUser(ctx context.Context, id int64) (models.User, error)
}

// WithSession attaches the caller's user to the request context when the
// request carries a live session. Requests without one pass through
// anonymously; the Require* wrappers decide what that means.
func WithSession(sessions auth.SessionStore, users UserSource, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := SessionToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), tokenKey, token)

		userID, ok := sessions.Lookup(token)
		if ok {
			user, err := users.GetUser(r.Context(), userID)
			switch {
			case err == nil:
				ctx = context.WithValue(ctx, userKey, user)
			case errors.Is(err, ledger.ErrNotFound):
				// Backend was reset under a live session
				sessions.Delete(token)
			default:
				slog.Error("failed to load session user", "user_id", userID, "error", err)
				ErrorResponse(w, http.StatusInternalServerError, "Database error")
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionToken returns the token from the session cookie or a bearer header
func SessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if token, err := auth.ParseBearer(r.Header.Get("Authorization")); err == nil {
		return token
	}
	return ""
}

// CurrentUser returns the authenticated user, if any
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

// CurrentToken returns the session token presented with the request, valid or not
func CurrentToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// RequireUser rejects anonymous callers with 401
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next(w, r)
	}
}

// RequireAdmin rejects anonymous callers with 401 and non-admins with 403
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok {
			ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !user.IsAdmin {
			ErrorResponse(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, r)
	}
}

// SetSessionCookie issues the session to the client as an HttpOnly cookie and
// in the X-Session-Token header for non-browser clients
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(SessionTokenHeader, token)
}

// ClearSessionCookie tells the browser to drop the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
