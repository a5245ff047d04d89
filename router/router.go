// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/handlers"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
)

func NewRouter(l ledger.Ledger, sessions auth.SessionStore, cfg cliparse.Config) (http.Handler, error) {
	mux := http.NewServeMux()

	// Initialize handlers
	candidateHandler := handlers.NewCandidateHandler(l)
	votingHandler := handlers.NewVotingHandler(l)
	resultsHandler := handlers.NewResultsHandler(l)
	authHandler := handlers.NewAuthHandler(l, sessions, cfg)
	graphqlHandler, err := handlers.NewGraphQLHandler(l)
	if err != nil {
		return nil, err
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Accounts
	mux.HandleFunc("POST /api/register", middleware.WithLogging(authHandler.Register))
	mux.HandleFunc("POST /api/login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("POST /api/logout", middleware.WithLogging(authHandler.Logout))
	mux.HandleFunc("GET /api/user", middleware.WithLogging(middleware.RequireUser(authHandler.GetUser)))

	// Candidates (reads public, writes admin)
	mux.HandleFunc("GET /api/candidates", middleware.WithLogging(candidateHandler.ListCandidates))
	mux.HandleFunc("POST /api/candidates", middleware.WithLogging(middleware.RequireAdmin(candidateHandler.CreateCandidate)))
	mux.HandleFunc("DELETE /api/candidates/{id}", middleware.WithLogging(middleware.RequireAdmin(candidateHandler.DeleteCandidate)))

	// Voting
	mux.HandleFunc("POST /api/vote/{candidateId}", middleware.WithLogging(middleware.RequireUser(votingHandler.Vote)))
	mux.HandleFunc("GET /api/votes", middleware.WithLogging(middleware.RequireAdmin(votingHandler.ListVotes)))

	// Live results
	mux.HandleFunc("GET /api/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /api/graphql", middleware.WithLogging(graphqlHandler.ServeHTTP))
	mux.HandleFunc("POST /api/graphql", middleware.WithLogging(graphqlHandler.ServeHTTP))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-vote API v1"))
	})

	return middleware.CORS(middleware.WithSession(sessions, l, mux)), nil
}
