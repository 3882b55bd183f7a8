// ABOUTME: Bandwidth configuration loaded with viper from YAML and BANDWIDTH_ env vars.
// ABOUTME: Covers backend selection, time zone, logging, and collaborator endpoints.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/bandwidth/internal/storage"
	"github.com/spf13/viper"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
	BackendRedis  = "redis"
)

// Source and notifier kinds.
const (
	SourceLocal   = "local"
	SourceHTTP    = "http"
	NotifyLog     = "log"
	NotifyWebhook = "webhook"
	NotifyRedis   = "redis"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BANDWIDTH"

// Config stores bandwidth tool configuration.
type Config struct {
	// Backend selects the metric store: "sqlite" (default), "charm", or "redis".
	Backend string `mapstructure:"backend"`

	// DataDir holds bandwidth.db. Supports ~ expansion.
	DataDir string `mapstructure:"data_dir"`

	// UserID is the bound identity for the sqlite and redis backends.
	UserID string `mapstructure:"user_id"`

	// Timezone is the IANA name used to cut days. "Local" uses the system zone.
	Timezone string `mapstructure:"timezone"`

	Log    LogConfig    `mapstructure:"log"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Source SourceConfig `mapstructure:"source"`
	Notify NotifyConfig `mapstructure:"notify"`
	Tasks  TasksConfig  `mapstructure:"tasks"`
}

// LogConfig controls zap output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RedisConfig points at the Redis server used for the cache and notifications.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// SourceConfig selects where raw biometrics come from.
type SourceConfig struct {
	Kind    string        `mapstructure:"kind"`
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

// NotifyConfig selects how partner notifications are delivered.
type NotifyConfig struct {
	Kind  string `mapstructure:"kind"`
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

// TasksConfig tunes the daily task listener.
type TasksConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendSQLite)
	v.SetDefault("data_dir", "")
	v.SetDefault("user_id", "")
	v.SetDefault("timezone", "Local")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "bandwidth:notifications")
	v.SetDefault("source.kind", SourceLocal)
	v.SetDefault("source.base_url", "")
	v.SetDefault("source.token", "")
	v.SetDefault("source.timeout", 10*time.Second)
	v.SetDefault("source.retries", 2)
	v.SetDefault("notify.kind", NotifyLog)
	v.SetDefault("notify.url", "")
	v.SetDefault("notify.token", "")
	v.SetDefault("tasks.poll_interval", 30*time.Second)
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// DBPath is the SQLite file inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "bandwidth.db")
}

// Location resolves the reference time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigDir is $XDG_CONFIG_HOME/bandwidth.
func ConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "bandwidth")
}

// GetConfigPath returns the default config file path.
func GetConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load reads cfgFile, or the default config file when empty. A missing file
// leaves the defaults in place. BANDWIDTH_* variables override file values.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(ExpandPath(cfgFile))
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
