package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "TALLY_SERVER_HOST"
	EnvServerPort              = "TALLY_SERVER_PORT"
	EnvServerReadTimeout       = "TALLY_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "TALLY_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "TALLY_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "TALLY_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "TALLY_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP server parameters. Timeouts are Go duration
// strings; WriteTimeout bounds an upload-and-ingest request end to end.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

type durationField struct {
	name  string
	value *string
	env   string
	def   string
}

func (c *ServerConfig) durations() []durationField {
	return []durationField{
		{"read_timeout", &c.ReadTimeout, EnvServerReadTimeout, "1m"},
		{"read_header_timeout", &c.ReadHeaderTimeout, EnvServerReadHeaderTimeout, "10s"},
		{"write_timeout", &c.WriteTimeout, EnvServerWriteTimeout, "15m"},
		{"idle_timeout", &c.IdleTimeout, EnvServerIdleTimeout, "2m"},
		{"shutdown_timeout", &c.ShutdownTimeout, EnvServerShutdownTimeout, "30s"},
	}
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return parseDuration(c.ReadTimeout)
}

// ReadHeaderTimeoutDuration returns ReadHeaderTimeout as a time.Duration.
func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return parseDuration(c.ReadHeaderTimeout)
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return parseDuration(c.WriteTimeout)
}

// IdleTimeoutDuration returns IdleTimeout as a time.Duration.
func (c *ServerConfig) IdleTimeoutDuration() time.Duration {
	return parseDuration(c.IdleTimeout)
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return parseDuration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}

	theirs := overlay.durations()
	for i, field := range c.durations() {
		if v := *theirs[i].value; v != "" {
			*field.value = v
		}
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, field := range c.durations() {
		if *field.value == "" {
			*field.value = field.def
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	for _, field := range c.durations() {
		if v := os.Getenv(field.env); v != "" {
			*field.value = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, field := range c.durations() {
		d, err := time.ParseDuration(*field.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", field.name, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid %s: negative duration %s", field.name, d)
		}
	}
	return nil
}

func parseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
