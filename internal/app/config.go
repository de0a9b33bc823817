package app

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the ironvault binary.
type Config struct {
	DBDriver string `envconfig:"DB_DRIVER" default:"memory"`
	DBDSN    string `envconfig:"DB_DSN"`

	// RedisAddr enables the shared outflow lock, Redis dedupe and the asynq
	// worker. Empty runs everything in-process.
	RedisAddr string `envconfig:"REDIS_ADDR"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	Currency     string        `envconfig:"CURRENCY" default:"usd"`
	Location     string        `envconfig:"LOCATION" default:"UTC"`
	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"10s"`

	ExpiryCron  string `envconfig:"EXPIRY_CRON" default:"0 6 * * *"`
	PayrollCron string `envconfig:"PAYROLL_CRON"`

	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`
}

// LoadConfig reads IRONVAULT_* environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("ironvault", &cfg); err != nil {
		return nil, err
	}
	switch cfg.DBDriver {
	case "memory":
	case "postgres", "sqlite", "mongo":
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("IRONVAULT_DB_DSN must be set for driver %q", cfg.DBDriver)
		}
	default:
		return nil, fmt.Errorf("unknown IRONVAULT_DB_DRIVER %q", cfg.DBDriver)
	}
	if _, err := time.LoadLocation(cfg.Location); err != nil {
		return nil, fmt.Errorf("IRONVAULT_LOCATION: %w", err)
	}
	return &cfg, nil
}

// Loc returns the configured location. LoadConfig has already validated it.
func (c *Config) Loc() *time.Location {
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}
