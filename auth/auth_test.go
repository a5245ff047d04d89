// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == "correct horse" {
		t.Error("HashPassword() returned the plain password")
	}

	// Salted: hashing twice gives different output
	hash2, _ := HashPassword("correct horse")
	if hash == hash2 {
		t.Error("HashPassword() is not salted")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pw")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  bool
	}{
		{"correct password", hash, "s3cret-pw", false},
		{"wrong password", hash, "s3cret-pX", true},
		{"empty password", hash, "", true},
		{"garbage hash", "not-a-hash", "s3cret-pw", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPassword(tt.hash, tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidCredentials {
				t.Errorf("CheckPassword() error = %v, want %v", err, ErrInvalidCredentials)
			}
		})
	}
}

func TestGenerateSessionToken(t *testing.T) {
	token, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	// Should be URL-safe (no padding)
	if strings.Contains(token, "=") {
		t.Error("GenerateSessionToken() contains padding characters")
	}

	// Should be reasonably long (24 bytes encoded)
	if len(token) < 30 {
		t.Errorf("GenerateSessionToken() too short: %d chars", len(token))
	}

	// Test randomness - should not produce duplicates
	tokens := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateSessionToken()
		if err != nil {
			t.Fatalf("GenerateSessionToken() error on iteration %d: %v", i, err)
		}
		if tokens[token] {
			t.Errorf("GenerateSessionToken() produced duplicate token: %s", token)
		}
		tokens[token] = true
	}
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc123", "abc123", false},
		{"lowercase scheme", "bearer abc123", "abc123", false},
		{"surrounding space", "Bearer   abc123  ", "abc123", false},
		{"empty header", "", "", true},
		{"scheme only", "Bearer ", "", true},
		{"basic auth", "Basic dXNlcjpwYXNz", "", true},
		{"no scheme", "abc123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearer(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBearer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBearer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMemorySessions(t *testing.T) {
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemorySessions(time.Hour)
	s.now = func() time.Time { return clock }

	token, err := s.Create(42)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	userID, ok := s.Lookup(token)
	if !ok || userID != 42 {
		t.Errorf("Lookup() = %d, %v; want 42, true", userID, ok)
	}

	if _, ok := s.Lookup("unknown"); ok {
		t.Error("Lookup() found an unknown token")
	}

	s.Delete(token)
	if _, ok := s.Lookup(token); ok {
		t.Error("Lookup() found a deleted token")
	}

	// Expiry
	token, _ = s.Create(7)
	clock = clock.Add(time.Hour)
	if _, ok := s.Lookup(token); ok {
		t.Error("Lookup() accepted an expired session")
	}
}

func TestMemorySessions_Prune(t *testing.T) {
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemorySessions(time.Minute)
	s.now = func() time.Time { return clock }

	s.Create(1)
	s.Create(2)
	clock = clock.Add(30 * time.Second)
	fresh, _ := s.Create(3)

	clock = clock.Add(45 * time.Second)
	if n := s.Prune(); n != 2 {
		t.Errorf("Prune() = %d, want 2", n)
	}
	if _, ok := s.Lookup(fresh); !ok {
		t.Error("Prune() removed a live session")
	}
}

func TestMemorySessions_RunPrunerStops(t *testing.T) {
	s := NewMemorySessions(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.RunPruner(ctx, time.Millisecond)
		close(done)
	}()

	s.Create(1)
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunPruner() did not return after cancel")
	}
}

// Benchmark tests
func BenchmarkGenerateSessionToken(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateSessionToken()
	}
}

func BenchmarkCheckPassword(b *testing.B) {
	hash, _ := HashPassword("benchmark-pw")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CheckPassword(hash, "benchmark-pw")
	}
}
