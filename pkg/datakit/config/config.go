package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds datakit settings.
type Config struct {
	Log       LogConfig       `yaml:"log" json:"log" toml:"log"`
	Store     StoreConfig     `yaml:"store" json:"store" toml:"store"`
	Stats     StatsConfig     `yaml:"stats" json:"stats" toml:"stats"`
	Telemetry TelemetryConfig `yaml:"telemetry" json:"telemetry" toml:"telemetry"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" json:"level" toml:"level"`    // debug, info, warn, error
	Format string `yaml:"format" json:"format" toml:"format"` // text, json
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Driver string `yaml:"driver" json:"driver" toml:"driver"`
	// Path is the SQLite database file. Ignored by the memory driver.
	Path string `yaml:"path" json:"path" toml:"path"`
}

// StatsConfig tunes the statistics helpers.
type StatsConfig struct {
	OutlierThreshold float64 `yaml:"outlier_threshold" json:"outlier_threshold" toml:"outlier_threshold"`
}

// TelemetryConfig toggles OpenTelemetry instrumentation.
type TelemetryConfig struct {
	Metrics bool `yaml:"metrics" json:"metrics" toml:"metrics"`
	Tracing bool `yaml:"tracing" json:"tracing" toml:"tracing"`
}

// Default returns the built-in settings: info-level text logs, an in-memory
// store, a 2.0 outlier threshold and telemetry disabled.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Driver: DriverMemory,
		},
		Stats: StatsConfig{
			OutlierThreshold: 2.0,
		},
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for the sqlite driver", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: store.driver %q", ErrInvalid, c.Store.Driver)
	}

	if c.Stats.OutlierThreshold <= 0 {
		return fmt.Errorf("%w: stats.outlier_threshold must be positive, got %v", ErrInvalid, c.Stats.OutlierThreshold)
	}
	return nil
}

// ApplyEnv overrides settings from DATAKIT_* variables looked up with getenv.
// Pass os.Getenv in production.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("DATAKIT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("DATAKIT_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := getenv("DATAKIT_STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}
	if v := getenv("DATAKIT_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := getenv("DATAKIT_OUTLIER_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Stats.OutlierThreshold = f
		}
	}
	if v := getenv("DATAKIT_METRICS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Telemetry.Metrics = b
		}
	}
	if v := getenv("DATAKIT_TRACING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Telemetry.Tracing = b
		}
	}
}
