// Package config loads champgrid settings from a YAML file, a .env file and the
// process environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "champgrid.yaml"

type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	Generator GeneratorConfig `yaml:"generator"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CatalogConfig selects where characters come from.
type CatalogConfig struct {
	Source   string         `yaml:"source"` // file, ddragon or bigquery
	Path     string         `yaml:"path"`
	BaseURL  string         `yaml:"base_url"`
	Version  string         `yaml:"version"`
	Locale   string         `yaml:"locale"`
	Timeout  string         `yaml:"timeout"`
	BigQuery BigQueryConfig `yaml:"bigquery"`
}

type BigQueryConfig struct {
	Project string `yaml:"project"`
	Table   string `yaml:"table"`
}

type GeneratorConfig struct {
	Policy   string `yaml:"policy"`
	Shuffle  bool   `yaml:"shuffle"`
	MaxNodes int    `yaml:"max_nodes"`
}

type StorageConfig struct {
	Driver     string           `yaml:"driver"` // fs, sqlite or pocketbase
	Dir        string           `yaml:"dir"`
	SQLitePath string           `yaml:"sqlite_path"`
	PocketBase PocketBaseConfig `yaml:"pocketbase"`
}

type PocketBaseConfig struct {
	URL        string `yaml:"url"`
	Email      string `yaml:"email"`
	Password   string `yaml:"-"`
	Collection string `yaml:"collection"`
	Reauth     string `yaml:"reauth_interval"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	AllowedOrigin   string `yaml:"allowed_origin"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Source:  "file",
			Path:    "champions.json",
			Version: "13.14.1",
			Locale:  "en_US",
			Timeout: "15s",
		},
		Generator: GeneratorConfig{
			Policy:  "prefix",
			Shuffle: true,
		},
		Storage: StorageConfig{
			Driver:     "fs",
			Dir:        "puzzles",
			SQLitePath: "champgrid.db",
			PocketBase: PocketBaseConfig{
				Collection: "champgrids",
				Reauth:     "30m",
			},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			AllowedOrigin:   "*",
			ShutdownTimeout: "10s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error. A .env file
// next to the config is loaded before environment overrides are applied.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg.applyEnvOverrides()
	return cfg, cfg.Validate()
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CHAMPGRID_CATALOG_SOURCE"); v != "" {
		c.Catalog.Source = v
	}
	if v := os.Getenv("CHAMPGRID_CATALOG_PATH"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("CHAMPGRID_DDRAGON_VERSION"); v != "" {
		c.Catalog.Version = v
	}
	if v := os.Getenv("CHAMPGRID_BIGQUERY_PROJECT"); v != "" {
		c.Catalog.BigQuery.Project = v
	}
	if v := os.Getenv("CHAMPGRID_BIGQUERY_TABLE"); v != "" {
		c.Catalog.BigQuery.Table = v
	}

	if v := os.Getenv("CHAMPGRID_POLICY"); v != "" {
		c.Generator.Policy = v
	}
	if v := os.Getenv("CHAMPGRID_SHUFFLE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Generator.Shuffle = b
		}
	}

	if v := os.Getenv("CHAMPGRID_STORAGE"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("CHAMPGRID_STORAGE_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("CHAMPGRID_SQLITE_PATH"); v != "" {
		c.Storage.SQLitePath = v
	}

	// PocketBase credentials keep their historical names.
	if v := os.Getenv("POCKETBASE_URL"); v != "" {
		c.Storage.PocketBase.URL = v
	}
	if v := os.Getenv("POCKETBASE_EMAIL"); v != "" {
		c.Storage.PocketBase.Email = v
	}
	if v := os.Getenv("POCKETBASE_PASSWORD"); v != "" {
		c.Storage.PocketBase.Password = v
	}

	if v := os.Getenv("CHAMPGRID_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CHAMPGRID_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CHAMPGRID_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// Validate rejects values that would only fail later and less clearly.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Driver) {
	case "fs", "sqlite", "pocketbase":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch strings.ToLower(c.Generator.Policy) {
	case "", "prefix", "random":
	default:
		return fmt.Errorf("unknown selection policy %q", c.Generator.Policy)
	}
	if c.Generator.MaxNodes < 0 {
		return fmt.Errorf("generator.max_nodes must not be negative")
	}
	return nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetTimeout returns the catalog fetch timeout as a duration.
func (c CatalogConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 15*time.Second)
}

// GetReauthInterval returns how often the PocketBase session is refreshed.
func (c PocketBaseConfig) GetReauthInterval() time.Duration {
	return parseDuration(c.Reauth, 30*time.Minute)
}

// GetShutdownTimeout returns the grace period for in-flight requests.
func (c ServerConfig) GetShutdownTimeout() time.Duration {
	return parseDuration(c.ShutdownTimeout, 10*time.Second)
}
