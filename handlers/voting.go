// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/middleware"
)

type VotingHandler struct {
	ledger ledger.Ledger
}

func NewVotingHandler(l ledger.Ledger) *VotingHandler {
	return &VotingHandler{ledger: l}
}

// Vote handles POST /api/vote/{candidateId} (authenticated)
// Responds with the caller's updated user record so the client can refresh
// its remaining-vote count
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	candidateID, err := strconv.ParseInt(r.PathValue("candidateId"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	record, err := h.ledger.Vote(r.Context(), user.ID, candidateID)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		metrics.VoteRejections.WithLabelValues(metrics.ReasonNotFound).Inc()
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ledger.ErrVotesExhausted):
		metrics.VoteRejections.WithLabelValues(metrics.ReasonExhausted).Inc()
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		metrics.VoteRejections.WithLabelValues(metrics.ReasonError).Inc()
		slog.Error("failed to record vote", "user_id", user.ID, "candidate_id", candidateID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	metrics.VotesCast.Inc()
	slog.Info("vote recorded", "vote_id", record.ID, "user_id", user.ID, "candidate_id", candidateID)

	updated, err := h.ledger.GetUser(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to reload user after vote", "user_id", user.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, updated)
}

// ListVotes handles GET /api/votes (admin only)
// Returns the audit trail of every accepted vote
func (h *VotingHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.ledger.ListVotes(r.Context())
	if err != nil {
		slog.Error("failed to list votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, votes)
}
