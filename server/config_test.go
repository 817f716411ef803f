package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	setRequired := func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/blackjack")
		t.Setenv("JWT_SECRET", "secret")
	}

	t.Run("defaults", func(t *testing.T) {
		setRequired(t)
		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
		assert.Zero(t, cfg.RoundExpiry)
	})

	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_SECRET", "secret")
		_, err := loadConfig()
		assert.Error(t, err)
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/blackjack")
		t.Setenv("JWT_SECRET", "")
		_, err := loadConfig()
		assert.Error(t, err)
	})

	t.Run("round expiry", func(t *testing.T) {
		setRequired(t)
		t.Setenv("ROUND_EXPIRY", "24h")
		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, cfg.RoundExpiry)
	})

	t.Run("bad round expiry", func(t *testing.T) {
		setRequired(t)
		t.Setenv("ROUND_EXPIRY", "tomorrow")
		_, err := loadConfig()
		assert.Error(t, err)
	})

	t.Run("custom port", func(t *testing.T) {
		setRequired(t)
		t.Setenv("PORT", "9090")
		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Port)
	})
}
