package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef" // 32 chars

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WORDTRAIL_AUTH_JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 2000, cfg.Storage.SaveTimeoutMs)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, 50, cfg.Review.HistorySize)
	assert.Equal(t, 20, cfg.Review.DefaultTargetCards)
	assert.Equal(t, 30, cfg.Review.DefaultMaxDurationMinutes)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("WORDTRAIL_AUTH_JWT_SECRET", testSecret)
	t.Setenv("WORDTRAIL_SERVER_PORT", "9090")
	t.Setenv("WORDTRAIL_SERVER_LOG_LEVEL", "debug")
	t.Setenv("WORDTRAIL_STORAGE_BACKEND", "sqlite")
	t.Setenv("WORDTRAIL_STORAGE_SQLITE_PATH", "/tmp/wordtrail-test.db")
	t.Setenv("WORDTRAIL_REVIEW_HISTORY_SIZE", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/wordtrail-test.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 10, cfg.Review.HistorySize)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("WORDTRAIL_AUTH_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadRejectsShortJWTSecret(t *testing.T) {
	t.Setenv("WORDTRAIL_AUTH_JWT_SECRET", strings.Repeat("x", 31))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWTSecret")
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("WORDTRAIL_AUTH_JWT_SECRET", testSecret)
	t.Setenv("WORDTRAIL_STORAGE_BACKEND", "cassandra")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Backend")
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("WORDTRAIL_AUTH_JWT_SECRET", testSecret)
	t.Setenv("WORDTRAIL_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")
}

func TestLoadRequiresPostgresURLForPostgresBackend(t *testing.T) {
	t.Setenv("WORDTRAIL_AUTH_JWT_SECRET", testSecret)
	t.Setenv("WORDTRAIL_STORAGE_BACKEND", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PostgresURL")

	t.Setenv("WORDTRAIL_STORAGE_POSTGRES_URL", "postgres://localhost:5432/wordtrail")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/wordtrail", cfg.Storage.PostgresURL)
}
