package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	StoreBackend  string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration
	AdminUsername string
	AdminPassword string
	EnvFile       string
}

var validBackends = map[string]bool{
	"memory":   true,
	"sqlite":   true,
	"postgres": true,
	"bolt":     true,
	"redis":    true,
}

// ParseFlags reads flags, then fills anything unset from the environment
// (after loading the env file, if present), then applies defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("quickly-vote", flag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.StoreBackend, "s", "", "Store backend (memory, sqlite, postgres, bolt, redis)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or file path")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", "", "Redis address host:port")
	fs.StringVar(&cfg.RedisPassword, "redis-password", "", "Redis password (prefer env)")
	fs.IntVar(&cfg.RedisDB, "redis-db", -1, "Redis database number")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Session lifetime")

	// Bootstrap admin (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminUsername, "admin-user", "", "Admin username to create at startup")
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Admin password (prefer env)")

	fs.StringVar(&cfg.EnvFile, "env-file", ".env", "Env file to load before reading the environment")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Existing environment variables win over the file
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", cfg.EnvFile, err)
		}
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 5000 // default
		}
	}

	if cfg.StoreBackend == "" {
		cfg.StoreBackend = os.Getenv("STORE_BACKEND")
		if cfg.StoreBackend == "" {
			cfg.StoreBackend = "memory"
		}
	}
	if !validBackends[cfg.StoreBackend] {
		return Config{}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	switch cfg.StoreBackend {
	case "sqlite", "postgres", "bolt":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("database URL required for %s (use -d or DATABASE_URL env)", cfg.StoreBackend)
		}
	}

	if cfg.RedisAddr == "" {
		cfg.RedisAddr = os.Getenv("REDIS_ADDR")
		if cfg.RedisAddr == "" {
			cfg.RedisAddr = "localhost:6379"
		}
	}
	if cfg.RedisPassword == "" {
		cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	}
	if cfg.RedisDB < 0 {
		cfg.RedisDB = 0
		if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
			n, err := strconv.Atoi(dbStr)
			if err != nil {
				return Config{}, errors.New("invalid REDIS_DB env variable")
			}
			cfg.RedisDB = n
		}
	}

	ttlSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "session-ttl" {
			ttlSet = true
		}
	})
	if !ttlSet {
		cfg.SessionTTL = 24 * time.Hour
		if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
			ttl, err := time.ParseDuration(ttlStr)
			if err != nil {
				return Config{}, errors.New("invalid SESSION_TTL env variable")
			}
			cfg.SessionTTL = ttl
		}
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, errors.New("session TTL must be positive")
	}

	if cfg.AdminUsername == "" {
		cfg.AdminUsername = os.Getenv("ADMIN_USERNAME")
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	}
	if cfg.AdminUsername != "" && cfg.AdminPassword == "" {
		return Config{}, errors.New("ADMIN_PASSWORD required when an admin user is configured")
	}

	return cfg, nil
}
