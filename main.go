// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/router"
)

const (
	sessionPruneInterval = time.Minute
	shutdownTimeout      = 10 * time.Second
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the vote ledger (creates schema/buckets as needed)
	store, err := ledger.Open(ctx, cfg)
	if err != nil {
		slog.Error("ledger open failed", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Ledger ready", "backend", cfg.StoreBackend)

	if cfg.AdminUsername != "" {
		if _, err := auth.EnsureAdmin(ctx, store, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			slog.Error("admin seeding failed", "error", err)
			os.Exit(1)
		}
	}

	sessions := auth.NewMemorySessions(cfg.SessionTTL)
	go sessions.RunPruner(ctx, sessionPruneInterval)

	// Create router
	mux, err := router.NewRouter(store, sessions, cfg)
	if err != nil {
		slog.Error("router setup failed", "error", err)
		os.Exit(1)
	}

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
