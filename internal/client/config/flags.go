package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/recetario/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string     base URL of the REST server
//	-d string     directory for the local database
//	-s string     storage backend: sqlite, redis or memory
//	-r string     redis address (host:port or redis:// URL)
//	-t duration   per-request timeout, 0 disables it
//	-l string     log level: debug, info, warn, error
//	-i duration   connectivity check interval, 0 disables it
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-d", "-s", "-r", "-t", "-l", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "base URL of the server")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "local data directory")
	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "storage backend (sqlite|redis|memory)")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.DurationVar(&cfg.OnlineCheckInterval, "i", cfg.OnlineCheckInterval, "connectivity check interval")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
