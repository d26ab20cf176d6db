package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://localhost/feastbook")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, time.Hour, cfg.MinLeadTime)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.False(t, cfg.Production())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestFromEnvRequiresSecret(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()
	assert.Error(t, err, "empty secret")

	require.NoError(t, os.Unsetenv("JWT_SECRET"))
	_, err = FromEnv()
	assert.Error(t, err, "missing secret")
}

func TestFromEnvDatabaseURLOnlyForPostgres(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("STORE", "Memory")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE", "memory")
	t.Setenv("MIN_LEAD_TIME", "2h")
	t.Setenv("TIMEZONE", "Asia/Kolkata")
	t.Setenv("ENV", "production")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.MinLeadTime)
	assert.True(t, cfg.Production())

	_, err = cfg.Location()
	require.NoError(t, err)

	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err = FromEnv()
	assert.Error(t, err)
}
