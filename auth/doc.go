// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and login sessions.

# Passwords

Credentials are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err := auth.CheckPassword(hash, attempt) // ErrInvalidCredentials on mismatch

# Session Tokens

Session tokens are random 24-byte (192-bit) secrets, URL-safe base64 encoded:

	token, err := auth.GenerateSessionToken()

Clients present them as a cookie or an Authorization header:

	token, err := auth.ParseBearer(r.Header.Get("Authorization"))

# Session Store

MemorySessions maps tokens to user ids with a fixed lifetime:

	sessions := auth.NewMemorySessions(24 * time.Hour)
	token, _ := sessions.Create(user.ID)
	userID, ok := sessions.Lookup(token)
	sessions.Delete(token)

Expired sessions are dropped on lookup and by RunPruner, which main starts
with the server's context.
*/
package auth
