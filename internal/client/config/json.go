package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/recetario/internal/flagx"
	"github.com/dmitrijs2005/recetario/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "300ms" or as integer nanoseconds.
type JsonConfig struct {
	BaseURL        string          `json:"base_url"`
	DataDir        string          `json:"data_dir"`
	DatabaseFile   string          `json:"database_file"`
	StorageBackend string          `json:"storage_backend"`
	RedisAddr      string          `json:"redis_addr"`
	RedisPrefix    string          `json:"redis_prefix"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	TextDebounce   timex.Duration  `json:"text_debounce"`
	ChipDebounce   timex.Duration  `json:"chip_debounce"`
	PageSize       int             `json:"page_size"`
	LogLevel       string          `json:"log_level"`
	S3Bucket       string          `json:"s3_bucket"`
	S3Region       string          `json:"s3_region"`
	S3Endpoint     string          `json:"s3_endpoint"`
	S3AccessKey    string          `json:"s3_access_key"`
	S3SecretKey    string          `json:"s3_secret_key"`
	S3PublicURL    string          `json:"s3_public_url"`

	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Keys absent from the file keep their current value. An
// explicit "request_timeout": 0 disables the timeout.
//
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.BaseURL, jc.BaseURL)
	overlay(&cfg.DataDir, jc.DataDir)
	overlay(&cfg.DatabaseFile, jc.DatabaseFile)
	overlay(&cfg.StorageBackend, jc.StorageBackend)
	overlay(&cfg.RedisAddr, jc.RedisAddr)
	overlay(&cfg.RedisPrefix, jc.RedisPrefix)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.S3Bucket, jc.S3Bucket)
	overlay(&cfg.S3Region, jc.S3Region)
	overlay(&cfg.S3Endpoint, jc.S3Endpoint)
	overlay(&cfg.S3AccessKey, jc.S3AccessKey)
	overlay(&cfg.S3SecretKey, jc.S3SecretKey)
	overlay(&cfg.S3PublicURL, jc.S3PublicURL)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.TextDebounce.Duration > 0 {
		cfg.TextDebounce = jc.TextDebounce.Duration
	}
	if jc.ChipDebounce.Duration > 0 {
		cfg.ChipDebounce = jc.ChipDebounce.Duration
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
}
