// Package config defines process configuration and how it is loaded.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers a YAML file and environment variables over the defaults.
// - Errors wrap ErrInvalidConfig or ErrLoadConfig.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/okian/benchtrack/internal/domain/quarter"
)

// Store drivers accepted in StoreDriver.
const (
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

var drivers = []string{DriverSupabase, DriverPostgres, DriverSQLite, DriverMemory}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address of the serve command.
	Addr string `koanf:"addr"`

	// ArchiveURL is where the benchmark zip is downloaded from.
	ArchiveURL string `koanf:"archive_url"`

	// StoreDriver selects the score store: supabase, postgres, sqlite or memory.
	StoreDriver string `koanf:"store_driver"`

	// StoreURL is the supabase project URL, postgres DSN or sqlite path.
	StoreURL string `koanf:"store_url"`

	// StoreKey is the supabase service key.
	StoreKey string `koanf:"store_key"`

	// Workers bounds how many benchmark files are processed at once.
	Workers int `koanf:"workers"`

	DownloadTimeout time.Duration `koanf:"download_timeout"`
	UpsertTimeout   time.Duration `koanf:"upsert_timeout"`
	MaxRedirects    int           `koanf:"max_redirects"`
	RetryMax        int           `koanf:"retry_max"`

	// FirstQuarter and LastQuarter bound the aggregation grid, e.g. "Q1 2023".
	FirstQuarter string `koanf:"first_quarter"`
	LastQuarter  string `koanf:"last_quarter"`

	// PushgatewayURL, when set, receives run metrics after each update.
	PushgatewayURL string `koanf:"pushgateway_url"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		ArchiveURL:      "https://epoch.ai/data/benchmark_data.zip",
		StoreDriver:     DriverSupabase,
		Workers:         1,
		DownloadTimeout: 2 * time.Minute,
		UpsertTimeout:   30 * time.Second,
		MaxRedirects:    20,
		RetryMax:        3,
		FirstQuarter:    quarter.DefaultFirst,
		LastQuarter:     quarter.DefaultLast,
	}
}

// Validate checks values that do not depend on the command being run.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.ArchiveURL == "" {
		return fmt.Errorf("%w: archive_url must not be empty", ErrInvalidConfig)
	}
	if !slices.Contains(drivers, c.StoreDriver) {
		return fmt.Errorf("%w: store_driver %q (want one of %s)", ErrInvalidConfig, c.StoreDriver, strings.Join(drivers, ", "))
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	if c.DownloadTimeout <= 0 || c.UpsertTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	if c.MaxRedirects < 0 || c.RetryMax < 0 {
		return fmt.Errorf("%w: max_redirects and retry_max must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Grid(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// RequireStore checks the credentials the selected driver needs to write.
func (c *Config) RequireStore() error {
	switch c.StoreDriver {
	case DriverSupabase:
		var missing []string
		if c.StoreURL == "" {
			missing = append(missing, "store_url (SUPABASE_URL)")
		}
		if c.StoreKey == "" {
			missing = append(missing, "store_key (SUPABASE_SERVICE_KEY)")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, " and "))
		}
	case DriverPostgres, DriverSQLite:
		if c.StoreURL == "" {
			return fmt.Errorf("%w: missing store_url for %s", ErrInvalidConfig, c.StoreDriver)
		}
	}
	return nil
}

// Grid returns the configured quarter grid.
func (c *Config) Grid() (quarter.Grid, error) {
	return quarter.ParseRange(c.FirstQuarter, c.LastQuarter)
}
