// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

type CandidateHandler struct {
	ledger ledger.Ledger
}

func NewCandidateHandler(l ledger.Ledger) *CandidateHandler {
	return &CandidateHandler{ledger: l}
}

// ListCandidates handles GET /api/candidates
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.ledger.ListCandidates(r.Context())
	if err != nil {
		slog.Error("failed to list candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// CreateCandidate handles POST /api/candidates (admin only)
func (h *CandidateHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if issues := validateRequest(req); len(issues) > 0 {
		middleware.ValidationErrorResponse(w, issues)
		return
	}

	candidate, err := h.ledger.CreateCandidate(r.Context(), req.Name, req.Description)
	if err != nil {
		slog.Error("failed to create candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create candidate")
		return
	}

	metrics.CandidatesCreated.Inc()
	admin, _ := middleware.CurrentUser(r.Context())
	slog.Info("candidate created", "candidate_id", candidate.ID, "name", candidate.Name, "by", admin.Username)

	middleware.JSONResponse(w, http.StatusCreated, candidate)
}

// DeleteCandidate handles DELETE /api/candidates/{id} (admin only)
// Always succeeds: an absent candidate, or an id that names no candidate at
// all, leaves the ledger untouched
func (h *CandidateHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		slog.Info("delete of malformed candidate id ignored", "id", r.PathValue("id"))
		middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Candidate deleted"})
		return
	}

	if err := h.ledger.DeleteCandidate(r.Context(), id); err != nil {
		slog.Error("failed to delete candidate", "candidate_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete candidate")
		return
	}

	slog.Info("candidate deleted", "candidate_id", id)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Candidate deleted"})
}
