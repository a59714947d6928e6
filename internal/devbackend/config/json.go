package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/launchpad/internal/flagx"
	"github.com/dmitrijs2005/launchpad/internal/timex"
	"github.com/tidwall/jsonc"
)

// JSONConfig is the on-disk shape. Absent fields leave the current value.
// Durations accept strings such as "12h" or integer nanoseconds.
type JSONConfig struct {
	Addr      *string         `json:"addr"`
	SecretKey *string         `json:"secret_key"`
	TokenTTL  *timex.Duration `json:"token_ttl"`
	Seed      *bool           `json:"seed"`
	LogLevel  *string         `json:"log_level"`
}

// parseJSON overlays the file named by -c/-config, if any. Comments and
// trailing commas are allowed.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var c JSONConfig
	if err := json.Unmarshal(jsonc.ToJSON(raw), &c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.Addr != nil {
		cfg.Addr = *c.Addr
	}
	if c.SecretKey != nil {
		cfg.SecretKey = *c.SecretKey
	}
	if c.TokenTTL != nil {
		cfg.TokenTTL = c.TokenTTL.Duration
	}
	if c.Seed != nil {
		cfg.Seed = *c.Seed
	}
	if c.LogLevel != nil {
		cfg.LogLevel = *c.LogLevel
	}
	return nil
}
