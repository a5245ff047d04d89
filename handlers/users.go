// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

type AuthHandler struct {
	ledger   ledger.Ledger
	sessions auth.SessionStore
	cfg      cliparse.Config
}

func NewAuthHandler(l ledger.Ledger, sessions auth.SessionStore, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{ledger: l, sessions: sessions, cfg: cfg}
}

// Register handles POST /api/register
// Creates a regular (non-admin) account and logs it in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := parseCredentials(w, r)
	if !ok {
		return
	}

	// Uniqueness is checked on the lookup path first; the ledger still
	// rejects a duplicate that slips in between the two calls
	_, err := h.ledger.GetUserByUsername(r.Context(), req.Username)
	if err == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Username already exists")
		return
	}
	if !errors.Is(err, ledger.ErrNotFound) {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	user, err := h.ledger.CreateUser(r.Context(), req.Username, hash, false)
	if errors.Is(err, ledger.ErrDuplicateUser) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Username already exists")
		return
	}
	if err != nil {
		slog.Error("failed to create user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	metrics.UsersRegistered.Inc()
	slog.Info("user registered", "user_id", user.ID, "username", user.Username)

	if !h.startSession(w, user) {
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, user)
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := parseCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.ledger.GetUserByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, ledger.ErrNotFound) {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if err != nil || auth.CheckPassword(user.Credential, req.Password) != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if !h.startSession(w, user) {
		return
	}
	slog.Info("user logged in", "user_id", user.ID)
	middleware.JSONResponse(w, http.StatusOK, user)
}

// Logout handles POST /api/logout
// Always succeeds, even without a session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.CurrentToken(r.Context()); token != "" {
		h.sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Logged out"})
}

// GetUser handles GET /api/user (authenticated)
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, user)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, user models.User) bool {
	token, err := h.sessions.Create(user.ID)
	if err != nil {
		slog.Error("failed to create session", "user_id", user.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start session")
		return false
	}
	middleware.SetSessionCookie(w, token, h.cfg.SessionTTL)
	return true
}

// parseCredentials decodes and validates a username/password body, writing
// the error response itself when it returns false
func parseCredentials(w http.ResponseWriter, r *http.Request) (models.CredentialsRequest, bool) {
	var req models.CredentialsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return req, false
	}

	req.Username = strings.TrimSpace(req.Username)
	if issues := validateRequest(req); len(issues) > 0 {
		middleware.ValidationErrorResponse(w, issues)
		return req, false
	}
	return req, true
}
