package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "THESIS_"

// Load reads a TOML file at path on top of Defaults, then applies THESIS_*
// environment overrides. An empty path skips the file. A .env file in the
// working directory is loaded when present. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	// Missing .env is fine.
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setInt(&cfg.Engine.MinConfidence, EnvPrefix+"ENGINE_MIN_CONFIDENCE")
	setInt(&cfg.Engine.WindowDays, EnvPrefix+"ENGINE_WINDOW_DAYS")

	setStr(&cfg.Log.Level, EnvPrefix+"LOG_LEVEL")
	setStr(&cfg.Log.Encoding, EnvPrefix+"LOG_ENCODING")
	setBool(&cfg.Log.Development, EnvPrefix+"LOG_DEVELOPMENT")

	setStr(&cfg.Postgres.DSN, "DATABASE_URL") // compatibility alias
	setStr(&cfg.Postgres.DSN, EnvPrefix+"POSTGRES_DSN")
	setBool(&cfg.Postgres.RunMigrations, EnvPrefix+"POSTGRES_RUN_MIGRATIONS")

	setStr(&cfg.Metrics.Namespace, EnvPrefix+"METRICS_NAMESPACE")
	setStr(&cfg.Metrics.Textfile, EnvPrefix+"METRICS_TEXTFILE")

	setStr(&cfg.Output.Format, EnvPrefix+"OUTPUT_FORMAT")
}

// Each helper only mutates the target when the variable is set and parses.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
