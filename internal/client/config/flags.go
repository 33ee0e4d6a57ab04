package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/pengaduan/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-a string   API base URL
//	-t int      request timeout (seconds)
//	-s string   store backend: sqlite, memory, redis
//	-d string   store path (sqlite file)
//	-l string   log level
//
// Only these flags are looked at; -c is handled by parseJson.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-s", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "store backend (sqlite, memory, redis)")
	fs.StringVar(&cfg.StorePath, "d", cfg.StorePath, "path of the local store")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *timeout > 0 {
		cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	}
}
