package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppConfig_Defaults(t *testing.T) {
	cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "configs/fiscal_params.yaml", cfg.FiscalParams)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.True(t, cfg.NegligibleDifference.Equal(decimal.NewFromInt(100_000)))
	assert.True(t, cfg.GrowthRate.Equal(decimal.RequireFromString("0.05")))
	assert.False(t, cfg.CacheEnabled())
	assert.Zero(t, cfg.DefaultYear)
}

func TestLoadAppConfig_Environment(t *testing.T) {
	t.Setenv("TRIBGO_REDIS_ADDR", "localhost:6379")
	t.Setenv("TRIBGO_CACHE_TTL", "30m")
	t.Setenv("TRIBGO_GROWTH_RATE", "0.08")
	t.Setenv("TRIBGO_DEFAULT_YEAR", "2025")

	cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.GrowthRate.Equal(decimal.RequireFromString("0.08")))
	assert.Equal(t, 2025, cfg.DefaultYear)
}

func TestLoadAppConfig_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TRIBGO_LOG_FORMAT=json\nTRIBGO_NEGLIGIBLE_DIFFERENCE=250000\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("TRIBGO_LOG_FORMAT")
		os.Unsetenv("TRIBGO_NEGLIGIBLE_DIFFERENCE")
	})

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.NegligibleDifference.Equal(decimal.NewFromInt(250_000)))
}

func TestLoadAppConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"TRIBGO_LOG_FORMAT":            "xml",
		"TRIBGO_GROWTH_RATE":           "-1",
		"TRIBGO_NEGLIGIBLE_DIFFERENCE": "-5",
		"TRIBGO_CACHE_TTL":             "soon",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := LoadAppConfig(filepath.Join(t.TempDir(), "absent.env"))
			assert.Error(t, err)
		})
	}
}
