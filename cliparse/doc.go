// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 5000)
  - StoreBackend: memory, sqlite, postgres, bolt or redis (default: memory)
  - DatabaseURL: DSN for sqlite/postgres, file path for bolt
  - RedisAddr, RedisPassword, RedisDB: Redis connection (default: localhost:6379, db 0)
  - SessionTTL: Login session lifetime (default: 24h)
  - AdminUsername, AdminPassword: Admin account created at startup if missing

# CLI Flags

	-p               Server port
	-s               Store backend
	-d               Database URL / path
	-redis-addr      Redis address
	-redis-password  Redis password
	-redis-db        Redis database number
	-session-ttl     Session lifetime (Go duration)
	-admin-user      Bootstrap admin username
	-admin-password  Bootstrap admin password
	-env-file        Env file to load first (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	STORE_BACKEND  → -s
	DATABASE_URL   → -d
	REDIS_ADDR     → -redis-addr
	REDIS_PASSWORD → -redis-password
	REDIS_DB       → -redis-db
	SESSION_TTL    → -session-ttl
	ADMIN_USERNAME → -admin-user
	ADMIN_PASSWORD → -admin-password

CLI flags take precedence over environment variables. The env file is loaded
with godotenv and never overrides variables already set in the process.

# Validation

ParseFlags returns an error if:

  - the store backend is unknown
  - sqlite, postgres or bolt is selected without DATABASE_URL
  - an admin username is given without a password
  - PORT, REDIS_DB or SESSION_TTL cannot be parsed
*/
package cliparse
