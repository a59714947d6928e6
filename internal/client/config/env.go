package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "LAUNCHPAD_"

// parseEnv overlays cfg with LAUNCHPAD_* variables. Values from envFile are
// used only for variables lookup does not know. A missing envFile is fine.
func parseEnv(cfg *Config, envFile string, lookup func(string) (string, bool)) error {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	get := func(name string) (string, bool) {
		if v, ok := lookup(envPrefix + name); ok {
			return v, true
		}
		v, ok := fileVars[envPrefix+name]
		return v, ok
	}

	if v, ok := get("SERVER_URL"); ok {
		cfg.ServerURL = v
	}
	if v, ok := get("DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}

	for name, dst := range map[string]*time.Duration{
		"REQUEST_TIMEOUT": &cfg.RequestTimeout,
		"SETTLE_DELAY":    &cfg.SettleDelay,
		"NOTICE_TTL":      &cfg.NoticeTTL,
	} {
		v, ok := get(name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = d
	}

	for name, dst := range map[string]*int{
		"SETTLE_ATTEMPTS": &cfg.SettleAttempts,
		"PAGE_SIZE":       &cfg.PageSize,
	} {
		v, ok := get(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = n
	}
	return nil
}
