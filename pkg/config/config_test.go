package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 30, cfg.Ledger.ExpiryWindowDays)
	assert.Equal(t, 3, cfg.Ledger.ConflictRetries)
	assert.Equal(t, "UTC", cfg.Ledger.Timezone)
	assert.False(t, cfg.Ledger.StrictMinLevel)
	assert.False(t, cfg.JWT.AuthRequired)
}

func TestLoad_LeeVariablesDelLibro(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("LEDGER_EXPIRY_WINDOW_DAYS", "15")
	t.Setenv("LEDGER_CONFLICT_RETRIES", "5")
	t.Setenv("LEDGER_STRICT_MIN_LEVEL", "true")
	t.Setenv("LEDGER_TIMEZONE", "America/Bogota")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 15, cfg.Ledger.ExpiryWindowDays)
	assert.Equal(t, 5, cfg.Ledger.ConflictRetries)
	assert.True(t, cfg.Ledger.StrictMinLevel)
	assert.Equal(t, "America/Bogota", cfg.Ledger.Timezone)
}

func TestLoad_RechazaDriverDesconocido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_AuthRequiredSinSecreto(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/ledger?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
