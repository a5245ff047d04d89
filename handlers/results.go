// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
)

type ResultsHandler struct {
	ledger ledger.Ledger
}

func NewResultsHandler(l ledger.Ledger) *ResultsHandler {
	return &ResultsHandler{ledger: l}
}

// GetResults handles GET /api/results
// Live standings, recomputed on every request (clients poll this)
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.ledger.ListCandidates(r.Context())
	if err != nil {
		slog.Error("failed to list candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ComputeStandings(candidates))
}
