// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
)

// serve runs h behind session resolution, the way the router mounts it
func serve(h http.HandlerFunc, sessions auth.SessionStore, l ledger.Ledger, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	middleware.WithSession(sessions, l, h).ServeHTTP(w, req)
	return w
}

func decode(body string, v interface{}) error {
	return json.Unmarshal([]byte(body), v)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
