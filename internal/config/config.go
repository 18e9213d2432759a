package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultAPIURL = "https://api.quicksell.co/v1/internal/frontend-assignment"

type Config struct {
	APIURL       string         `yaml:"api_url"`
	FetchTimeout time.Duration  `yaml:"-"`
	RawTimeout   string         `yaml:"fetch_timeout"`
	LogFile      string         `yaml:"log_file"`
	Log          LogConfig      `yaml:"log"`
	Settings     SettingsConfig `yaml:"settings"`
	Cache        CacheConfig    `yaml:"cache"`
	TUI          TUIConfig      `yaml:"tui"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SettingsConfig struct {
	Backend string      `yaml:"backend"` // file|redis|memory
	Path    string      `yaml:"path"`
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"-"`
	RawTTL  string        `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

type TUIConfig struct {
	RefreshInterval time.Duration `yaml:"-"`
	RawInterval     string        `yaml:"refresh_interval"`
}

// Load reads path and applies defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() error {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}

	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err != nil {
			return fmt.Errorf("parse fetch_timeout %q: %w", c.RawTimeout, err)
		}
		c.FetchTimeout = d
	}

	if c.LogFile == "" {
		c.LogFile = filepath.Join(stateDir(), "ticketboard.log")
	}
	c.LogFile = expandHome(c.LogFile)
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Settings.Backend == "" {
		c.Settings.Backend = "file"
	}
	c.Settings.Path = expandHome(c.Settings.Path)
	if c.Settings.Redis.Prefix == "" {
		c.Settings.Redis.Prefix = "ticketboard:settings:"
	}

	if c.Cache.RawTTL == "" {
		c.Cache.RawTTL = "5m"
	}
	ttl, err := time.ParseDuration(c.Cache.RawTTL)
	if err != nil {
		return fmt.Errorf("parse cache.ttl %q: %w", c.Cache.RawTTL, err)
	}
	c.Cache.TTL = ttl
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = c.Settings.Redis.Addr
		c.Cache.Redis.Password = c.Settings.Redis.Password
		c.Cache.Redis.DB = c.Settings.Redis.DB
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "ticketboard:feed"
	}

	if c.TUI.RawInterval == "" {
		c.TUI.RawInterval = "250ms"
	}
	tuiInterval, err := time.ParseDuration(c.TUI.RawInterval)
	if err != nil {
		return fmt.Errorf("parse tui.refresh_interval %q: %w", c.TUI.RawInterval, err)
	}
	if tuiInterval <= 0 {
		return fmt.Errorf("tui.refresh_interval must be positive, got %s", c.TUI.RawInterval)
	}
	c.TUI.RefreshInterval = tuiInterval

	return nil
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api_url must be an http(s) URL, got %q", c.APIURL)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must not be negative, got %s", c.RawTimeout)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q (debug|info|warn|error)", c.Log.Level)
	}
	switch c.Settings.Backend {
	case "file", "memory":
	case "redis":
		if c.Settings.Redis.Addr == "" {
			return fmt.Errorf("settings.redis.addr required for redis backend")
		}
	default:
		return fmt.Errorf("invalid settings.backend %q (file|redis|memory)", c.Settings.Backend)
	}
	if c.Cache.Enabled {
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr required when cache enabled")
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.RawTTL)
		}
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/ticketboard/config.yaml (or ~/.config).
func DefaultPath() string {
	return filepath.Join(configDir(), "ticketboard", "config.yaml")
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config")
	}
	return "."
}

func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "ticketboard")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "ticketboard")
	}
	return "."
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
