// Package config loads easyapi settings from defaults, an optional TOML file
// and EASYAPI_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Client ClientConfig `mapstructure:"client"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig controls the fake catalog service.
type ServerConfig struct {
	Addr    string        `mapstructure:"addr"`
	Latency time.Duration `mapstructure:"latency"`
}

// ClientConfig controls how the demo reaches the catalog.
type ClientConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Cancellation bool          `mapstructure:"cancellation"`
}

// CacheConfig controls result caching.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Path returns the config file location. EASYAPI_CONFIG overrides the
// default of ~/.config/easyapi/config.toml.
func Path() string {
	if p := os.Getenv("EASYAPI_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "easyapi", "config.toml")
}

// New returns a viper instance with defaults, file and env sources wired up.
// The file is not read yet.
func New() *viper.Viper {
	v := viper.New()

	// default values
	v.SetDefault("server.addr", "127.0.0.1:8787")
	v.SetDefault("server.latency", 300*time.Millisecond)
	v.SetDefault("client.base_url", "http://127.0.0.1:8787")
	v.SetDefault("client.timeout", 10*time.Second)
	v.SetDefault("client.cancellation", true)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("EASYAPI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the config file if present and unmarshals v.
func Load(v *viper.Viper) (Config, error) {
	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the orchestrators would refuse.
func (c Config) Validate() error {
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Server.Latency < 0 {
		return fmt.Errorf("server.latency must not be negative, got %s", c.Server.Latency)
	}
	if c.Client.BaseURL == "" {
		return errors.New("client.base_url is required")
	}
	return nil
}
