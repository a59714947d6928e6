package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/launchpad/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., "127.0.0.1:8000")
//	-s string   token HMAC secret key
//	-t int      access token validity, minutes
//	-seed bool  create demo accounts
//	-l string   log level
//
// Only these flags are considered; -c/-config and anything else is left to
// other parsers.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-seed", "-l"})

	fs := flag.NewFlagSet("devbackend", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "address and port to run server")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	ttl := fs.Int("t", int(cfg.TokenTTL.Minutes()), "access token validity (in minutes)")
	fs.BoolVar(&cfg.Seed, "seed", cfg.Seed, "create demo accounts")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.TokenTTL = time.Duration(*ttl) * time.Minute
		}
	})
	return nil
}
