package app

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DBDriver)
	assert.Equal(t, 10*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "0 6 * * *", cfg.ExpiryCron)
	assert.Equal(t, time.UTC, cfg.Loc())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("IRONVAULT_DB_DRIVER", "sqlite")
	t.Setenv("IRONVAULT_DB_DSN", "file:gym.db")
	t.Setenv("IRONVAULT_STORE_TIMEOUT", "3s")
	t.Setenv("IRONVAULT_PAYROLL_CRON", "0 9 1 * *")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 3*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "0 9 1 * *", cfg.PayrollCron)
}

func TestLoadConfigRejectsBadDriver(t *testing.T) {
	t.Setenv("IRONVAULT_DB_DRIVER", "oracle")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("IRONVAULT_DB_DRIVER", "postgres")
	_, err = LoadConfig()
	require.Error(t, err, "postgres needs a DSN")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel(&Config{LogLevel: "DEBUG"}))
	assert.Equal(t, slog.LevelInfo, parseLevel(nil))
}
