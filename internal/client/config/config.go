package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds runtime settings for the Launchpad CLI.
type Config struct {
	// ServerURL is the backend base URL.
	ServerURL string
	// RequestTimeout bounds a single HTTP request.
	RequestTimeout time.Duration
	// SettleDelay and SettleAttempts tune the connections refresh that
	// follows accepting a request.
	SettleDelay    time.Duration
	SettleAttempts int
	// NoticeTTL is how long transient notices stay visible.
	NoticeTTL time.Duration
	// PageSize is the number of messages fetched per history page.
	PageSize int
	DBPath   string
	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 10 * time.Second
	c.SettleDelay = time.Second
	c.SettleAttempts = 3
	c.NoticeTTL = 4 * time.Second
	c.PageSize = 50
	c.DBPath = "launchpad.db"
	c.LogLevel = "info"
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server url %q must be an absolute http(s) URL", c.ServerURL)
	}
	var errs []error
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.SettleAttempts < 1 {
		errs = append(errs, errors.New("settle attempts must be at least 1"))
	}
	if c.PageSize < 1 {
		errs = append(errs, errors.New("page size must be at least 1"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db path is required"))
	}
	return errors.Join(errs...)
}

// Load builds a Config from defaults, the environment, an optional JSON
// file and args (command-line arguments without the program name). Later
// sources take precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg, ".env", os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
