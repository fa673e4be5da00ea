package config_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costeo-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.Pricing.Margin1Rate.Equal(decimal.RequireFromString("0.13")))
	assert.True(t, cfg.Pricing.Margin2Rate.Equal(decimal.RequireFromString("0.12")))
	assert.Equal(t, 3, cfg.Ledger.MaxAttempts)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PRICING_MARGIN1_RATE", "0.2")
	t.Setenv("LEDGER_MAX_ATTEMPTS", "5")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Pricing.Margin1Rate.Equal(decimal.RequireFromString("0.2")))
	assert.Equal(t, 5, cfg.Ledger.MaxAttempts)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_TasaInvalida(t *testing.T) {
	t.Setenv("PRICING_MARGIN2_RATE", "-0.1")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("PRICING_MARGIN2_RATE", "abc")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "costeo", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/costeo?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
