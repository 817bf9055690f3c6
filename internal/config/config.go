// Package config loads service configuration from the environment.
//
// Loading order: a .env file (if present) is merged into the process
// environment, UPTIMEPLOT_-prefixed variables are bound to the Config
// struct, and the result is validated. All settings carry defaults so
// the service starts with no environment at all.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting of the service. Field names map to
// environment variables with the UPTIMEPLOT_ prefix, e.g. HTTPAddr is
// UPTIMEPLOT_HTTP_ADDR.
type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	AuthEnabled bool   `envconfig:"AUTH_ENABLED" default:"false"`
	AuthToken   string `envconfig:"AUTH_TOKEN"`

	// Catalog files loaded at startup. Both optional; requests may carry
	// inline stations and sources instead.
	StationFile string `envconfig:"STATION_FILE"`
	SourceFile  string `envconfig:"SOURCE_FILE"`

	// Defaults applied to requests that omit the corresponding field.
	DefaultStepSeconds     int     `envconfig:"DEFAULT_STEP_SECONDS" default:"60" validate:"gt=0"`
	DefaultMinElevationDeg float64 `envconfig:"DEFAULT_MIN_ELEVATION_DEG" default:"10" validate:"gte=-90,lte=90"`

	// MaxSamplesPerPair bounds the work a single pair scan may demand.
	MaxSamplesPerPair int `envconfig:"MAX_SAMPLES_PER_PAIR" default:"200000" validate:"gt=0"`

	// Workers bounds concurrent pair scans; 0 means one per CPU.
	Workers int `envconfig:"WORKERS" default:"0" validate:"gte=0"`

	CacheMaxEntries int `envconfig:"CACHE_MAX_ENTRIES" default:"128" validate:"gte=0"`

	TrustProxy bool   `envconfig:"TRUST_PROXY" default:"false"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

// Load builds a Config from the environment, merging a .env file when
// one exists in the working directory.
func Load() (Config, error) {
	// Absence of a .env file is the normal production case.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("uptimeplot", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if c.AuthEnabled && c.AuthToken == "" {
		return fmt.Errorf("UPTIMEPLOT_AUTH_TOKEN is required when auth is enabled")
	}
	return nil
}
