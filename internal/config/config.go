package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/tally/internal/ingestion"
	"github.com/JaimeStill/tally/pkg/database"
	"github.com/JaimeStill/tally/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvTallyEnv             = "TALLY_ENV"
	EnvTallyShutdownTimeout = "TALLY_SHUTDOWN_TIMEOUT"
	EnvTallyVersion         = "TALLY_VERSION"
)

// DatabaseEnv names the environment variables that override database settings.
var DatabaseEnv = &database.Env{
	Host:            "TALLY_DB_HOST",
	Port:            "TALLY_DB_PORT",
	Name:            "TALLY_DB_NAME",
	User:            "TALLY_DB_USER",
	Password:        "TALLY_DB_PASSWORD",
	SSLMode:         "TALLY_DB_SSL_MODE",
	MaxOpenConns:    "TALLY_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "TALLY_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "TALLY_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "TALLY_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "TALLY_STORAGE_CONTAINER_NAME",
	ConnectionString: "TALLY_STORAGE_CONNECTION_STRING",
	KeyPrefix:        "TALLY_STORAGE_KEY_PREFIX",
}

var ingestionEnv = &ingestion.Env{
	PlaceholderName: "TALLY_INGESTION_PLACEHOLDER_NAME",
	ConflictRetries: "TALLY_INGESTION_CONFLICT_RETRIES",
	MaxConcurrent:   "TALLY_INGESTION_MAX_CONCURRENT",
	DateLayouts:     "TALLY_INGESTION_DATE_LAYOUTS",
}

// Config is the root configuration for the tally service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	API             APIConfig        `toml:"api"`
	Ingestion       ingestion.Config `toml:"ingestion"`
	Logging         LoggingConfig    `toml:"logging"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the TALLY_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvTallyEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return parseDuration(c.ShutdownTimeout)
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Ingestion.Merge(&overlay.Ingestion)
	c.Logging.Merge(&overlay.Logging)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(DatabaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Ingestion.Finalize(ingestionEnv); err != nil {
		return fmt.Errorf("ingestion: %w", err)
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvTallyShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvTallyVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvTallyEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
