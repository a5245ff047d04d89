// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /api/candidates", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms) under a request id taken from X-Request-ID or generated with
uuid, and records latency in the quickvote_http_request_duration_seconds
histogram.

# Sessions

WithSession resolves the caller's session (cookie or bearer token) into the
request context:

	handler := middleware.WithSession(sessions, ledger, mux)
	user, ok := middleware.CurrentUser(r.Context())

Guards decide access before any handler body runs:

	middleware.RequireUser(h)  // 401 when anonymous
	middleware.RequireAdmin(h) // 401 when anonymous, 403 when not admin

SetSessionCookie and ClearSessionCookie manage the HttpOnly cookie.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers Content-Type,
Authorization and X-Request-ID, and exposes X-Session-Token.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ValidationErrorResponse(w, issues)

Parse JSON request bodies:

	var req models.CreateCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used as the remote field in request logs.
*/
package middleware
