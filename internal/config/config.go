// Package config loads runtime settings for the thesis tools.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config is the full application configuration.
type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Log      LogConfig      `toml:"log"`
	Postgres PostgresConfig `toml:"postgres"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Output   OutputConfig   `toml:"output"`
}

// EngineConfig tunes suggestion generation.
type EngineConfig struct {
	MinConfidence int `toml:"min_confidence"`
	WindowDays    int `toml:"window_days"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level             string `toml:"level"`
	Encoding          string `toml:"encoding"` // json | console
	Development       bool   `toml:"development"`
	DisableCaller     bool   `toml:"disable_caller"`
	DisableStacktrace bool   `toml:"disable_stacktrace"`
}

// PostgresConfig locates the trade store.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	RunMigrations bool   `toml:"run_migrations"`
}

// MetricsConfig controls Prometheus export.
type MetricsConfig struct {
	Namespace string `toml:"namespace"`
	Textfile  string `toml:"textfile"` // empty disables the export
}

// OutputConfig selects how suggestions are rendered.
type OutputConfig struct {
	Format string `toml:"format"` // table | markdown | csv | json
}

// Output formats.
const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatJSON     = "json"
)

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		Engine: EngineConfig{
			MinConfidence: 40,
			WindowDays:    14,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
		Postgres: PostgresConfig{
			RunMigrations: false,
		},
		Metrics: MetricsConfig{
			Namespace: "trade_thesis",
		},
		Output: OutputConfig{
			Format: FormatTable,
		},
	}
}

// Validation errors.
var (
	ErrInvalidConfidence = errors.New("engine.min_confidence must be within [0, 100]")
	ErrInvalidWindow     = errors.New("engine.window_days must be positive")
	ErrInvalidEncoding   = errors.New("log.encoding must be json or console")
	ErrInvalidFormat     = errors.New("output.format must be table, markdown, csv or json")
)

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Engine.MinConfidence < 0 || c.Engine.MinConfidence > 100 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidConfidence, c.Engine.MinConfidence))
	}
	if c.Engine.WindowDays <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidWindow, c.Engine.WindowDays))
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidEncoding, c.Log.Encoding))
	}
	if !IsFormat(c.Output.Format) {
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Output.Format))
	}

	return errors.Join(errs...)
}

// IsFormat reports whether f names a supported output format.
func IsFormat(f string) bool {
	switch strings.ToLower(f) {
	case FormatTable, FormatMarkdown, FormatCSV, FormatJSON:
		return true
	default:
		return false
	}
}
