package main

import (
	"fmt"
	"os"
	"time"
)

type config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration
	RoundExpiry time.Duration // zero disables the abandoned-round sweeper
}

// loadConfig reads settings from the environment. godotenv has already
// populated it from .env in dev; in prod the host sets the variables.
func loadConfig() (config, error) {
	cfg := config{
		Port:     envOr("PORT", "8080"),
		TokenTTL: 24 * time.Hour,
	}

	for _, k := range []string{"DATABASE_URL", "JWT_SECRET"} {
		if os.Getenv(k) == "" {
			return config{}, fmt.Errorf("missing required env var %s (set it in .env for dev or on the host for prod)", k)
		}
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	if v := os.Getenv("ROUND_EXPIRY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return config{}, fmt.Errorf("bad ROUND_EXPIRY %q: want a duration like 24h", v)
		}
		cfg.RoundExpiry = d
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
