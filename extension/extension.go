// Package extension provides the Forge extension adapter for IronVault.
//
// It implements the forge.Extension interface to integrate the gym engine
// into a Forge application with DI registration and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.ironvault" or
// "ironvault" keys.
package extension

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/forge"
	"github.com/xraph/grove"
	"github.com/xraph/vessel"

	ironvault "github.com/HassanShehryar1/IronVault-Gym-Management"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store/memory"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store/mongo"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store/postgres"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store/sqlite"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "ironvault"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Gym membership, payroll and ledger engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts IronVault as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config  Config
	gym     *ironvault.Gym
	store   store.Store
	groveDB *grove.DB
	gymOpts []ironvault.Option
}

// New creates a new IronVault Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Gym returns the underlying engine. It is nil until Register is called.
func (e *Extension) Gym() *ironvault.Gym { return e.gym }

// Register implements [forge.Extension]. It loads configuration,
// initializes the gym engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	if err := e.resolveStore(); err != nil {
		return err
	}

	opts, err := e.buildGymOpts()
	if err != nil {
		return err
	}
	e.gym = ironvault.New(e.store, opts...)

	return vessel.Provide(fapp.Container(), func() (*ironvault.Gym, error) {
		return e.gym, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.gym == nil {
		return errors.New("ironvault: extension not initialized")
	}
	if err := e.gym.Start(ctx); err != nil {
		return err
	}
	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.gym != nil {
		if err := e.gym.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("ironvault: store not initialized")
	}
	return e.store.Ping(ctx)
}

// StoreFromGrove returns the store backend matching db's driver.
func StoreFromGrove(db *grove.DB) (store.Store, error) {
	switch name := db.Driver().Name(); name {
	case "pg":
		return postgres.New(db), nil
	case "sqlite":
		return sqlite.New(db), nil
	case "mongo":
		return mongo.New(db), nil
	default:
		return nil, fmt.Errorf("ironvault: unsupported grove driver %q", name)
	}
}

// resolveStore picks the programmatic store, then the grove database, then
// an in-memory store.
func (e *Extension) resolveStore() error {
	if e.store != nil {
		return nil
	}
	if e.groveDB != nil {
		s, err := StoreFromGrove(e.groveDB)
		if err != nil {
			return err
		}
		e.store = s
		return nil
	}
	e.store = memory.New()
	return nil
}

// buildGymOpts constructs ironvault.Option values from the resolved config.
func (e *Extension) buildGymOpts() ([]ironvault.Option, error) {
	opts := make([]ironvault.Option, 0, len(e.gymOpts)+6)

	opts = append(opts,
		ironvault.WithCurrency(e.config.Currency),
		ironvault.WithStoreTimeout(e.config.StoreTimeout),
		ironvault.WithHookTimeout(e.config.HookTimeout),
	)

	loc, err := time.LoadLocation(e.config.Location)
	if err != nil {
		return nil, fmt.Errorf("ironvault: location %q: %w", e.config.Location, err)
	}
	opts = append(opts, ironvault.WithLocation(loc))

	if e.config.ExpiryScanInterval > 0 {
		opts = append(opts, ironvault.WithExpiryScan(e.config.ExpiryScanInterval))
	}
	if e.config.DisableMigrate {
		opts = append(opts, ironvault.WithoutMigrate())
	}

	// Pass-through options win over config-derived ones.
	opts = append(opts, e.gymOpts...)

	return opts, nil
}

// --- Config Loading ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("ironvault: configuration is required but not found in config files; " +
				"ensure 'extensions.ironvault' or 'ironvault' key exists in your config")
		}
		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("ironvault: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("currency", e.config.Currency),
		forge.F("location", e.config.Location),
		forge.F("store_timeout", e.config.StoreTimeout),
		forge.F("expiry_scan_interval", e.config.ExpiryScanInterval),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	for _, key := range []string{"extensions.ironvault", "ironvault"} {
		if !cm.IsSet(key) {
			continue
		}
		if err := cm.Bind(key, &cfg); err == nil {
			e.Logger().Debug("ironvault: loaded config from file", forge.F("key", key))
			return cfg, true
		}
		e.Logger().Warn("ironvault: failed to bind config", forge.F("key", key))
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.Currency == "" {
		cfg.Currency = defaults.Currency
	}
	if cfg.Location == "" {
		cfg.Location = defaults.Location
	}
	if cfg.StoreTimeout == 0 {
		cfg.StoreTimeout = defaults.StoreTimeout
	}
	if cfg.HookTimeout == 0 {
		cfg.HookTimeout = defaults.HookTimeout
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence; programmatic values fill gaps.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}
	if yamlConfig.Currency == "" {
		yamlConfig.Currency = programmaticConfig.Currency
	}
	if yamlConfig.Location == "" {
		yamlConfig.Location = programmaticConfig.Location
	}
	if yamlConfig.StoreTimeout == 0 {
		yamlConfig.StoreTimeout = programmaticConfig.StoreTimeout
	}
	if yamlConfig.HookTimeout == 0 {
		yamlConfig.HookTimeout = programmaticConfig.HookTimeout
	}
	if yamlConfig.ExpiryScanInterval == 0 {
		yamlConfig.ExpiryScanInterval = programmaticConfig.ExpiryScanInterval
	}
	return mergeWithDefaults(yamlConfig)
}
