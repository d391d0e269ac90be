// Package config loads runtime configuration for the recetario CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-u string     base URL of the REST server
//	-d string     local data directory
//	-s string     storage backend: sqlite, redis or memory
//	-r string     redis address
//	-t duration   per-request timeout (0 disables)
//	-l string     log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "300ms"
// or integer nanoseconds:
//
//	{
//	  "base_url": "https://recetas.example/api/",
//	  "storage_backend": "sqlite",
//	  "request_timeout": "30s",
//	  "text_debounce": "300ms",
//	  "chip_debounce": "100ms",
//	  "page_size": 10,
//	  "s3_bucket": "recetario-media",
//	  "s3_endpoint": "http://127.0.0.1:9000"
//	}
//
// S3 settings are only read from the JSON file.
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
