package extension

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"

	ironvault "github.com/HassanShehryar1/IronVault-Gym-Management"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store/memory"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store/sqlite"
)

func TestMergeWithDefaults(t *testing.T) {
	cfg := mergeWithDefaults(Config{Currency: "eur"})
	assert.Equal(t, "eur", cfg.Currency)
	assert.Equal(t, "UTC", cfg.Location)
	assert.Equal(t, 10*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 5*time.Second, cfg.HookTimeout)
}

func TestMergeConfigurationsPrefersFile(t *testing.T) {
	file := Config{Currency: "gbp", StoreTimeout: 3 * time.Second}
	prog := Config{Currency: "usd", Location: "Europe/London", DisableMigrate: true, ExpiryScanInterval: time.Hour}

	cfg := mergeConfigurations(file, prog)
	assert.Equal(t, "gbp", cfg.Currency)
	assert.Equal(t, "Europe/London", cfg.Location)
	assert.Equal(t, 3*time.Second, cfg.StoreTimeout)
	assert.Equal(t, time.Hour, cfg.ExpiryScanInterval)
	assert.True(t, cfg.DisableMigrate)
}

func TestResolveStore(t *testing.T) {
	e := New()
	require.NoError(t, e.resolveStore())
	assert.IsType(t, &memory.Store{}, e.store)

	ctx := context.Background()
	sdb := sqlitedriver.New()
	require.NoError(t, sdb.Open(ctx, filepath.Join(t.TempDir(), "gym.db")))
	db, err := grove.Open(sdb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	e = New(WithGroveDB(db))
	require.NoError(t, e.resolveStore())
	assert.IsType(t, &sqlite.Store{}, e.store)
}

func TestBuildGymOptsRejectsUnknownLocation(t *testing.T) {
	e := New(WithConfig(Config{Location: "Mars/Olympus"}))
	e.config = mergeWithDefaults(e.config)
	_, err := e.buildGymOpts()
	require.Error(t, err)
}

func TestBuildGymOptsProducesWorkingEngine(t *testing.T) {
	e := New(WithDisableMigrate(), WithStore(memory.New()))
	e.config = mergeWithDefaults(e.config)
	require.NoError(t, e.resolveStore())

	opts, err := e.buildGymOpts()
	require.NoError(t, err)

	gym := ironvault.New(e.store, opts...)
	assert.Equal(t, "usd", gym.Currency())
	require.NoError(t, gym.Start(context.Background()))
	require.NoError(t, gym.Stop())
}
