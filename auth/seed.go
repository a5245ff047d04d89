// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/models"
)

// MinPasswordLength matches the validate tag on models.CredentialsRequest
const MinPasswordLength = 6

// UserCreator is the slice of the ledger that admin seeding needs
type UserCreator interface {
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, username, credential string, isAdmin bool) (models.User, error)
}

// EnsureAdmin creates the admin account if no user holds the username yet.
// An existing account is left untouched, admin or not.
func EnsureAdmin(ctx context.Context, users UserCreator, username, password string) (models.User, error) {
	if len(password) < MinPasswordLength {
		return models.User{}, fmt.Errorf("admin password must be at least %d characters", MinPasswordLength)
	}

	existing, err := users.GetUserByUsername(ctx, username)
	if err == nil {
		if !existing.IsAdmin {
			slog.Warn("configured admin username belongs to a regular user", "username", username)
		}
		return existing, nil
	}
	if !errors.Is(err, ledger.ErrNotFound) {
		return models.User{}, fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	admin, err := users.CreateUser(ctx, username, hash, true)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("admin account created", "user_id", admin.ID, "username", admin.Username)
	return admin, nil
}
