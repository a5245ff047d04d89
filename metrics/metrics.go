// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons for VoteRejections
const (
	ReasonNotFound  = "not_found"
	ReasonExhausted = "votes_exhausted"
	ReasonError     = "error"
)

var (
	VotesCast = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quickvote",
		Name:      "votes_cast_total",
		Help:      "Votes accepted by the ledger.",
	})

	VoteRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quickvote",
		Name:      "vote_rejections_total",
		Help:      "Votes refused, by reason.",
	}, []string{"reason"})

	CandidatesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quickvote",
		Name:      "candidates_created_total",
		Help:      "Candidates added by admins.",
	})

	UsersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quickvote",
		Name:      "users_registered_total",
		Help:      "Accounts created through registration or admin seeding.",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "quickvote",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
