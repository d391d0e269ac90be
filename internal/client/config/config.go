package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Storage backends for the device key-value store.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config holds runtime settings for the recetario CLI.
//
// Units: RequestTimeout, OnlineCheckInterval and the debounce windows are
// time.Duration values. A zero RequestTimeout disables the per-request
// timeout and a zero OnlineCheckInterval disables the connectivity watcher.
type Config struct {
	BaseURL        string
	DataDir        string
	DatabaseFile   string
	StorageBackend string
	RedisAddr      string
	RedisPrefix    string
	RequestTimeout time.Duration
	TextDebounce   time.Duration
	ChipDebounce   time.Duration
	PageSize       int
	LogLevel       string

	OnlineCheckInterval time.Duration

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080/api/"
	c.DataDir = "recetario_data"
	c.DatabaseFile = "recetario.db"
	c.StorageBackend = StorageSQLite
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "recetario:"
	c.RequestTimeout = 30 * time.Second
	c.TextDebounce = 300 * time.Millisecond
	c.ChipDebounce = 100 * time.Millisecond
	c.PageSize = 10
	c.LogLevel = "info"
	c.OnlineCheckInterval = 10 * time.Second
	c.S3Region = "us-east-1"
}

// DatabasePath is where the SQLite store lives.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.DatabaseFile)
}

// MediaEnabled reports whether image upload is configured.
func (c *Config) MediaEnabled() bool {
	return c.S3Bucket != ""
}

// Validate checks values that cannot be fixed up silently.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageSQLite, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base url is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative")
	}
	if c.OnlineCheckInterval < 0 {
		return fmt.Errorf("online check interval must not be negative")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
