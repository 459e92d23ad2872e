package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("missing database URL is fatal", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("defaults applied", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/condogate")
		t.Setenv("CONDOGATE_ADDR", "")
		t.Setenv("TOKEN_TTL", "")
		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
		assert.NotEmpty(t, cfg.JWTSigningKey)
	})

	t.Run("explicit TTL parsed", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/condogate")
		t.Setenv("TOKEN_TTL", "12h")
		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	})

	t.Run("bad TTL rejected", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/condogate")
		t.Setenv("TOKEN_TTL", "soon")
		_, err := FromEnv()
		require.Error(t, err)
	})
}
