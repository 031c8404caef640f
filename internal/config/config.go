// Package config loads the chartnav YAML configuration and applies
// environment variable overrides. All tunables live here and are handed to
// constructors explicitly; no package reads the config at call time.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"chartnav/internal/indicator"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for chartnav.
type Config struct {
	Storage    Storage          `yaml:"storage"`
	Server     Server           `yaml:"server"`
	Logging    Logging          `yaml:"logging"`
	Catalog    Catalog          `yaml:"catalog"`
	Indicators []indicator.Spec `yaml:"indicators"`
	Alpaca     Alpaca           `yaml:"alpaca"`
	Gather     Gather           `yaml:"gather"`
}

// Storage holds resource backend locations.
type Storage struct {
	// Backend selects the resource source: "parquet" (default) or "sqlite".
	Backend    string `yaml:"backend"`
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Server holds network listener configuration.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Catalog names the catalog inputs and window radii. DataResource and
// MinuteResource default to DictResource with the conventional "_data" and
// "_min" suffixes.
type Catalog struct {
	DictResource   string `yaml:"dict_resource"`
	DataResource   string `yaml:"data_resource"`
	MinuteResource string `yaml:"minute_resource"`
	NDaysDaily     int    `yaml:"n_days_daily"`
	NDaysIntraday  int    `yaml:"n_days_intraday"`
}

// Alpaca holds credentials for the Alpaca market-data API, used only by the
// backfill tooling.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	BaseURL   string `yaml:"base_url"`
	DataURL   string `yaml:"data_url"`
}

// Gather holds parameters for the daily-bar backfill job.
type Gather struct {
	Symbols         []string `yaml:"symbols"`
	StartDate       string   `yaml:"start_date"`
	BatchSize       int      `yaml:"batch_size"`
	RateLimitPerMin int      `yaml:"rate_limit_per_min"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, applies
// environment variable overrides, fills defaults, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}

	// Canonical Alpaca env vars used by the SDK take priority.
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "parquet"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Catalog.NDaysDaily == 0 {
		cfg.Catalog.NDaysDaily = 30
	}
	if cfg.Catalog.NDaysIntraday == 0 {
		cfg.Catalog.NDaysIntraday = 5
	}
	if cfg.Catalog.DataResource == "" && cfg.Catalog.DictResource != "" {
		cfg.Catalog.DataResource = cfg.Catalog.DictResource + "_data"
	}
	if cfg.Catalog.MinuteResource == "" && cfg.Catalog.DictResource != "" {
		cfg.Catalog.MinuteResource = cfg.Catalog.DictResource + "_min"
	}
}

// Validate checks value ranges. It is called by Load; callers constructing
// a Config by hand should call it themselves.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case "parquet", "sqlite":
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if c.Catalog.NDaysDaily < 1 || c.Catalog.NDaysDaily > 365 {
		return fmt.Errorf("catalog.n_days_daily: %d outside 1-365", c.Catalog.NDaysDaily)
	}
	if c.Catalog.NDaysIntraday < 1 || c.Catalog.NDaysIntraday > 20 {
		return fmt.Errorf("catalog.n_days_intraday: %d outside 1-20", c.Catalog.NDaysIntraday)
	}
	return nil
}
