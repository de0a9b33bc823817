package extension

import (
	"time"

	"github.com/xraph/grove"

	ironvault "github.com/HassanShehryar1/IronVault-Gym-Management"
	"github.com/HassanShehryar1/IronVault-Gym-Management/plugin"
	"github.com/HassanShehryar1/IronVault-Gym-Management/store"
)

// Option configures the IronVault Forge extension.
type Option func(*Extension)

// WithStore sets the store for the gym engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithGroveDB builds the store from a grove database, picking the backend
// from its driver.
func WithGroveDB(db *grove.DB) Option {
	return func(e *Extension) {
		e.groveDB = db
	}
}

// WithGymOption passes an ironvault.Option through to the underlying engine.
func WithGymOption(opt ironvault.Option) Option {
	return func(e *Extension) {
		e.gymOpts = append(e.gymOpts, opt)
	}
}

// WithPlugin registers a gym plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.gymOpts = append(e.gymOpts, ironvault.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithExpiryScanInterval runs the expiration scan in-process every d.
func WithExpiryScanInterval(d time.Duration) Option {
	return func(e *Extension) { e.config.ExpiryScanInterval = d }
}

// WithStoreTimeout bounds each engine operation's store calls.
func WithStoreTimeout(d time.Duration) Option {
	return func(e *Extension) { e.config.StoreTimeout = d }
}
