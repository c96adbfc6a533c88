package ingestion

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/tally/internal/identities"
)

// DefaultDateLayouts are tried in order when a date cell is text.
var DefaultDateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"02/01/2006",
	"2006/01/02",
	"02-01-2006",
}

// Config holds ingestion run parameters.
type Config struct {
	PlaceholderName string   `toml:"placeholder_name"`
	ConflictRetries int      `toml:"conflict_retries"`
	MaxConcurrent   int      `toml:"max_concurrent"`
	DateLayouts     []string `toml:"date_layouts"`
}

// Env maps config fields to environment variable names for override injection.
// DateLayouts is read as a semicolon-separated list.
type Env struct {
	PlaceholderName string
	ConflictRetries string
	MaxConcurrent   string
	DateLayouts     string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.PlaceholderName != "" {
		c.PlaceholderName = overlay.PlaceholderName
	}
	if overlay.ConflictRetries != 0 {
		c.ConflictRetries = overlay.ConflictRetries
	}
	if overlay.MaxConcurrent != 0 {
		c.MaxConcurrent = overlay.MaxConcurrent
	}
	if len(overlay.DateLayouts) > 0 {
		c.DateLayouts = overlay.DateLayouts
	}
}

func (c *Config) loadDefaults() {
	if c.PlaceholderName == "" {
		c.PlaceholderName = identities.DefaultPlaceholderName
	}
	if c.ConflictRetries == 0 {
		c.ConflictRetries = identities.DefaultConflictRetries
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 4
	}
	if len(c.DateLayouts) == 0 {
		c.DateLayouts = append([]string(nil), DefaultDateLayouts...)
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.PlaceholderName != "" {
		if v := os.Getenv(env.PlaceholderName); v != "" {
			c.PlaceholderName = v
		}
	}
	if env.ConflictRetries != "" {
		if v := os.Getenv(env.ConflictRetries); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.ConflictRetries = n
			}
		}
	}
	if env.MaxConcurrent != "" {
		if v := os.Getenv(env.MaxConcurrent); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxConcurrent = n
			}
		}
	}
	if env.DateLayouts != "" {
		if v := os.Getenv(env.DateLayouts); v != "" {
			var layouts []string
			for l := range strings.SplitSeq(v, ";") {
				if l = strings.TrimSpace(l); l != "" {
					layouts = append(layouts, l)
				}
			}
			if len(layouts) > 0 {
				c.DateLayouts = layouts
			}
		}
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.PlaceholderName) == "" {
		return fmt.Errorf("placeholder_name required")
	}
	if c.ConflictRetries < 1 {
		return fmt.Errorf("conflict_retries must be positive, got %d", c.ConflictRetries)
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be positive, got %d", c.MaxConcurrent)
	}
	return nil
}
