// Package config loads the small set of network-dependent constants the
// core needs at runtime -- the oracle's sample lifetime and a default
// observation length differ between mainnet and a local/devnet deployment,
// so they are not compiled-in constants. Modeled on blinklabs-io-shai's
// internal/config package: a package-level singleton populated by
// envconfig.Process, with defaults set before processing.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the core's environment-dependent knobs.
type Config struct {
	Logging LoggingConfig
	Oracle  OracleConfig
}

// LoggingConfig controls the package-level zap logger (see dlog).
type LoggingConfig struct {
	Level string `envconfig:"LEVEL"`
}

// OracleConfig controls the observation-rolling window (see oracle).
type OracleConfig struct {
	SampleLifetimeSeconds   int64  `envconfig:"SAMPLE_LIFETIME_SECONDS"`
	DefaultObservationLength uint64 `envconfig:"DEFAULT_OBSERVATION_LENGTH"`
}

var globalConfig = &Config{
	Logging: LoggingConfig{
		Level: "info",
	},
	Oracle: OracleConfig{
		SampleLifetimeSeconds:    120,
		DefaultObservationLength: 100,
	},
}

// Load populates globalConfig from the environment ("DLMM_" prefixed vars),
// falling back to the defaults set above for anything unset.
func Load() (*Config, error) {
	if err := envconfig.Process("dlmm", globalConfig); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	return globalConfig, nil
}

// GetConfig returns the global config instance.
func GetConfig() *Config {
	return globalConfig
}
