package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080/api/", c.BaseURL)
	assert.Equal(t, StorageSQLite, c.StorageBackend)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, 300*time.Millisecond, c.TextDebounce)
	assert.Equal(t, 100*time.Millisecond, c.ChipDebounce)
	assert.Equal(t, 10, c.PageSize)
	assert.Equal(t, 10*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, filepath.Join("recetario_data", "recetario.db"), c.DatabasePath())
	assert.False(t, c.MediaEnabled())
	require.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080/api/", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"base_url":        "http://json.example/api/",
		"storage_backend": "memory",
	})
	os.Args = []string{"testbin", "-c", path, "-u", "http://flag.example/api/"}

	cfg := LoadConfig()

	assert.Equal(t, "http://flag.example/api/", cfg.BaseURL)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "redis", mutate: func(c *Config) { c.StorageBackend = StorageRedis }},
		{name: "unknown backend", mutate: func(c *Config) { c.StorageBackend = "postgres" }, wantErr: true},
		{name: "empty base url", mutate: func(c *Config) { c.BaseURL = "" }, wantErr: true},
		{name: "zero page size", mutate: func(c *Config) { c.PageSize = 0 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.RequestTimeout = -time.Second }, wantErr: true},
		{name: "timeout disabled", mutate: func(c *Config) { c.RequestTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			if tt.wantErr {
				require.Error(t, c.Validate())
			} else {
				require.NoError(t, c.Validate())
			}
		})
	}
}
