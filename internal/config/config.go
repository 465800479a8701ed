// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package config loads arc-bookvault settings from defaults, an optional YAML
// file and ARC_BOOKVAULT_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mtreilly/arc-bookvault/internal/logging"
	"github.com/mtreilly/arc-bookvault/internal/storage"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// EnvPrefix namespaces environment overrides, e.g. ARC_BOOKVAULT_STORAGE.
const EnvPrefix = "ARC_BOOKVAULT"

type Config struct {
	Storage string       `mapstructure:"storage" yaml:"storage"`
	DBPath  string       `mapstructure:"db_path" yaml:"db_path"`
	Log     LogConfig    `mapstructure:"log" yaml:"log"`
	Serve   ServeConfig  `mapstructure:"serve" yaml:"serve"`
	Search  SearchConfig `mapstructure:"search" yaml:"search"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-" yaml:"-"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type ServeConfig struct {
	Bind string `mapstructure:"bind" yaml:"bind"`
	Port int    `mapstructure:"port" yaml:"port"`

	// RateLimit is requests per second per client IP; 0 disables limiting.
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
	Burst     int     `mapstructure:"burst" yaml:"burst"`
}

// SearchConfig holds the default matching mode for search commands.
type SearchConfig struct {
	Regex           bool `mapstructure:"regex" yaml:"regex"`
	CaseInsensitive bool `mapstructure:"case_insensitive" yaml:"case_insensitive"`
}

// DefaultDir returns the directory searched for config.yaml.
func DefaultDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "arc-bookvault")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage", StorageSQLite)
	v.SetDefault("db_path", storage.DefaultDBPath())
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", logging.FormatText)
	v.SetDefault("serve.bind", "127.0.0.1")
	v.SetDefault("serve.port", 8080)
	v.SetDefault("serve.rate_limit", 20)
	v.SetDefault("serve.burst", 40)
	v.SetDefault("search.regex", true)
	v.SetDefault("search.case_insensitive", true)
}

// Load reads the configuration. An explicit path must exist; otherwise a
// missing config.yaml in DefaultDir is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("config: storage %q (choose %s, %s)", c.Storage, StorageSQLite, StorageMemory)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("config: log format %q (choose text, json)", c.Log.Format)
	}
	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return fmt.Errorf("config: serve port %d out of range", c.Serve.Port)
	}
	if c.Serve.RateLimit < 0 {
		return fmt.Errorf("config: serve rate_limit %v is negative", c.Serve.RateLimit)
	}
	if c.Serve.RateLimit > 0 && c.Serve.Burst < 1 {
		return fmt.Errorf("config: serve burst must be at least 1 when rate_limit is set")
	}
	return nil
}

// Addr is the listen address for serve.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Serve.Bind, strconv.Itoa(c.Serve.Port))
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
