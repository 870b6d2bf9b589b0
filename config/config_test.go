package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8082", cfg.ServerPort)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
	assert.InDelta(t, 0.3, cfg.DefaultWinRate, 1e-9)
	assert.Empty(t, cfg.RabbitURL)
	assert.False(t, cfg.EventLog)
	assert.Equal(t, DefaultTokenSecret, cfg.TokenSecret)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("TOKEN_SECRET", "a-real-secret")
	t.Setenv("EVENT_LOG", "true")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.True(t, cfg.EventLog)
}

func TestLoad_AdminRequiresTokenSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ADMIN_USERNAME", "admin")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_SECRET")
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "mongo")

	_, err := Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5433", DBUser: "u", DBPassword: "p", DBName: "n", DBSSLMode: "disable"}

	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=disable", cfg.DSN())
}
