// Package config handles configuration for the development backend,
// including defaults, a JSON overlay and command-line flags.
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the development backend.
//
// Fields:
//   - Addr: HTTP bind address.
//   - SecretKey: HMAC secret for signing access tokens (HS256). Do not reuse outside development.
//   - TokenTTL: access token lifetime.
//   - Seed: create the demo accounts on start.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Addr      string
	SecretKey string
	TokenTTL  time.Duration
	Seed      bool
	LogLevel  string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = "127.0.0.1:8000"
	c.SecretKey = "dev-secret-key"
	c.TokenTTL = 24 * time.Hour
	c.Seed = true
	c.LogLevel = "info"
}

func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("listen address is required"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token lifetime must be positive"))
	}
	return errors.Join(errs...)
}

// Load builds a Config by applying defaults, then overlaying values from an
// optional JSON file (-c/-config) and finally from command-line flags.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
