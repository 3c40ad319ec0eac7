package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectFallsBackToAlternate(t *testing.T) {
	t.Cleanup(func() {
		Close()
		DB = nil
	})

	config := Config{
		Driver: "pgx",
		Host:   "primary.invalid",
		Fallback: &Config{
			Driver:   "sqlite",
			Database: ":memory:",
		},
	}

	require.NoError(t, ConnectWithConfig(config))
	assert.True(t, IsSQLite())
	assert.NoError(t, Ping())
}

func TestConnectReportsStorageUnavailable(t *testing.T) {
	DB = nil

	err := ConnectWithConfig(Config{Driver: "pgx", Host: "primary.invalid"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorageUnavailable))
	assert.Contains(t, err.Error(), "credentials not configured")
	assert.Error(t, Ping())
}

func TestGetConfigFromEnvAlternate(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_HOST", "db1")
	t.Setenv("DB_HOST_ALT", "db2")
	t.Setenv("DB_USER_ALT", "replica")
	t.Setenv("DB_NAME_ALT", "despacho_alt")

	config := GetConfigFromEnv()
	assert.Equal(t, "pgx", config.Driver)
	assert.Equal(t, "db1", config.Host)
	require.NotNil(t, config.Fallback)
	assert.Equal(t, "db2", config.Fallback.Host)
	assert.Equal(t, "replica", config.Fallback.User)
	assert.Equal(t, "5432", config.Fallback.Port)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, RunMigrations())

	version, err := GetCurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 3, version)
	assert.Equal(t, 3, countRows(t, "SELECT COUNT(*) FROM schema_migrations"))
}
