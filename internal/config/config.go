// Package config wraps viper behind a small read-only interface so the rest
// of the code never touches viper directly.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config provides read access to configuration values. A Config built from
// a nil viper returns zero values for every key.
type Config struct {
	v *viper.Viper
}

// New wraps an existing viper instance.
func New(v *viper.Viper) *Config {
	return &Config{v: v}
}

// Load reads configuration from the given file (or, when path is empty,
// from birdkeep.yaml in the working directory or /etc/birdkeep), applies
// defaults, and binds BIRDKEEP_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.rate_burst", 0)
	v.SetDefault("database.path", "birdkeep.db")

	v.SetEnvPrefix("BIRDKEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
		return New(v), nil
	}

	v.SetConfigName("birdkeep")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/birdkeep")
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return New(v), nil
}

// GetString returns the string value for key.
func (c *Config) GetString(key string) string {
	if c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

// GetInt returns the int value for key.
func (c *Config) GetInt(key string) int {
	if c.v == nil {
		return 0
	}
	return c.v.GetInt(key)
}

// GetFloat64 returns the float64 value for key.
func (c *Config) GetFloat64(key string) float64 {
	if c.v == nil {
		return 0
	}
	return c.v.GetFloat64(key)
}

// GetBool returns the bool value for key.
func (c *Config) GetBool(key string) bool {
	if c.v == nil {
		return false
	}
	return c.v.GetBool(key)
}

// GetDuration returns the duration value for key.
func (c *Config) GetDuration(key string) time.Duration {
	if c.v == nil {
		return 0
	}
	return c.v.GetDuration(key)
}

// IsSet reports whether key has a value.
func (c *Config) IsSet(key string) bool {
	if c.v == nil {
		return false
	}
	return c.v.IsSet(key)
}

// Sub returns the subtree rooted at key. Always non-nil.
func (c *Config) Sub(key string) *Config {
	if c.v == nil {
		return New(nil)
	}
	return New(c.v.Sub(key))
}

// Unmarshal decodes the configuration into target.
func (c *Config) Unmarshal(target any) error {
	if c.v == nil {
		return nil
	}
	return c.v.Unmarshal(target)
}
