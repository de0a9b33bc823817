package extension

import "time"

// Config holds the IronVault extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.ironvault" or "ironvault" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// Currency is the ledger currency (default: "usd").
	Currency string `json:"currency" mapstructure:"currency" yaml:"currency"`

	// Location is the IANA zone that defines calendar days and pay periods
	// (default: "UTC").
	Location string `json:"location" mapstructure:"location" yaml:"location"`

	// StoreTimeout bounds each engine operation's store calls (default: 10s).
	StoreTimeout time.Duration `json:"store_timeout" mapstructure:"store_timeout" yaml:"store_timeout"`

	// HookTimeout bounds each plugin call (default: 5s).
	HookTimeout time.Duration `json:"hook_timeout" mapstructure:"hook_timeout" yaml:"hook_timeout"`

	// ExpiryScanInterval runs the daily expiration scan in-process on this
	// interval. Zero leaves scheduling to the jobs worker.
	ExpiryScanInterval time.Duration `json:"expiry_scan_interval" mapstructure:"expiry_scan_interval" yaml:"expiry_scan_interval"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Currency:     "usd",
		Location:     "UTC",
		StoreTimeout: 10 * time.Second,
		HookTimeout:  5 * time.Second,
	}
}
